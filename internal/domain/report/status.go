package report

import (
	"strings"

	"github.com/kailas-cloud/petmatch/internal/domain"
)

// Status is the lifecycle side of a pet report.
type Status string

const (
	// StatusLost marks a report filed by an owner looking for a pet.
	StatusLost Status = "lost"
	// StatusFound marks a report filed by someone who found a pet.
	StatusFound Status = "found"
)

// ParseStatus normalizes s (trim, lower-case) and validates it.
func ParseStatus(s string) (Status, error) {
	v := Status(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case StatusLost, StatusFound:
		return v, nil
	case "":
		return "", domain.NewValidationError("status", "is required")
	default:
		return "", domain.NewValidationError("status", "must be lost or found")
	}
}

// Opposite returns the status a report of this status is matched against.
func (s Status) Opposite() Status {
	if s == StatusLost {
		return StatusFound
	}
	return StatusLost
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusLost || s == StatusFound
}
