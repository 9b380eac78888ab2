// Package match holds the match record created when a found report pairs with a lost one.
package match

import (
	"fmt"
	"math"
	"time"

	"github.com/kailas-cloud/petmatch/internal/domain"
)

// Record is an immutable link between a lost and a found report.
type Record struct {
	id        string
	lostID    string
	foundID   string
	score     float64
	seq       int64
	createdAt time.Time
}

// New validates and creates a Record. The store assigns id and sequence on insert.
func New(lostID, foundID string, score float64, createdAt time.Time) (Record, error) {
	if lostID == "" {
		return Record{}, fmt.Errorf("%w: lost id is required", domain.ErrInvalidReport)
	}
	if foundID == "" {
		return Record{}, fmt.Errorf("%w: found id is required", domain.ErrInvalidReport)
	}
	if math.IsNaN(score) || score < 0 || score > 1 {
		return Record{}, fmt.Errorf("%w: score %v out of [0,1]", domain.ErrInvalidReport, score)
	}
	return Record{
		lostID:    lostID,
		foundID:   foundID,
		score:     score,
		createdAt: createdAt.UTC(),
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(id, lostID, foundID string, score float64, seq int64, createdAt time.Time) Record {
	return Record{
		id:        id,
		lostID:    lostID,
		foundID:   foundID,
		score:     score,
		seq:       seq,
		createdAt: createdAt,
	}
}

func (r *Record) ID() string           { return r.id }
func (r *Record) LostID() string       { return r.lostID }
func (r *Record) FoundID() string      { return r.foundID }
func (r *Record) Score() float64       { return r.score }
func (r *Record) Seq() int64           { return r.seq }
func (r *Record) CreatedAt() time.Time { return r.createdAt }

// Assign sets the store-generated identity and sequence number.
func (r *Record) Assign(id string, seq int64) {
	r.id = id
	r.seq = seq
}

// Result is a match created while processing a found report.
type Result struct {
	MatchID string
	LostID  string
	Score   float64
}

// Candidate is a scored pairing returned by a preview. Nothing is persisted.
type Candidate struct {
	ReportID    string
	Score       float64
	AboveCutoff bool
}
