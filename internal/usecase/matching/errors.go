package matching

import (
	"fmt"

	"github.com/kailas-cloud/petmatch/internal/domain/match"
)

// PartialError reports a store failure after the found report was persisted.
// ID and Matches describe the work completed before the failure.
type PartialError struct {
	ID      string
	Matches []match.Result
	Err     error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("process found report %s: %d matches created before failure: %v", e.ID, len(e.Matches), e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }
