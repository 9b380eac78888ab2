package petmatch

import "github.com/kailas-cloud/petmatch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrInvalidReport          = domain.ErrInvalidReport
	ErrInvalidPolicy          = domain.ErrInvalidPolicy
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrImageUnavailable       = domain.ErrImageUnavailable
)
