package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidReport signals a pet report rejected at the boundary.
	ErrInvalidReport = errors.New("invalid report")
	// ErrInvalidPolicy signals an inconsistent scoring policy.
	ErrInvalidPolicy = errors.New("invalid scoring policy")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrImageUnavailable signals an image reference that could not be fetched or encoded.
	ErrImageUnavailable = errors.New("image unavailable")
)

// ValidationError wraps ErrInvalidReport with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidReport.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidReport }

// NewValidationError creates a report validation error for a field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
