package matching

import (
	"context"

	"github.com/kailas-cloud/petmatch/internal/domain/match"
	"github.com/kailas-cloud/petmatch/internal/domain/report"
	"github.com/kailas-cloud/petmatch/internal/domain/scoring"
)

// PetRepository defines the storage contract for the pets collection.
type PetRepository interface {
	Insert(ctx context.Context, r *report.Report) (string, error)
	Find(ctx context.Context, f report.Filter) ([]report.Report, error)
	// Delete reports whether the record existed before the call.
	Delete(ctx context.Context, id string) (bool, error)
}

// MatchRepository defines the storage contract for the append-only matches collection.
type MatchRepository interface {
	Insert(ctx context.Context, m *match.Record) (string, error)
	List(ctx context.Context) ([]match.Record, error)
}

// Scorer scores a lost/found pair. Implementations must not fail.
type Scorer interface {
	MatchScore(ctx context.Context, lost, found *report.Report) scoring.Breakdown
}

// Notifier is told about every created match.
type Notifier interface {
	NotifyMatch(ctx context.Context, lost, found *report.Report, m match.Result)
}
