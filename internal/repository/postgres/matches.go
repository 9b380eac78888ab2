package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/petmatch/internal/domain/match"
)

// MatchesRepo implements usecase/matching.MatchRepository.
type MatchesRepo struct {
	db    *sql.DB
	newID func() string
}

// NewMatchesRepo creates a matches repository.
func NewMatchesRepo(db *sql.DB) *MatchesRepo {
	return &MatchesRepo{db: db, newID: uuid.NewString}
}

// Insert stores m and assigns its id and database sequence.
func (r *MatchesRepo) Insert(ctx context.Context, m *match.Record) (string, error) {
	id := r.newID()

	var seq int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO matches (id, lost_id, found_id, score, created_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING seq
	`, id, m.LostID(), m.FoundID(), m.Score(), m.CreatedAt()).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("insert match: %w", err)
	}

	m.Assign(id, seq)
	return id, nil
}

// List returns every match record in creation order.
func (r *MatchesRepo) List(ctx context.Context) ([]match.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, lost_id, found_id, score, seq, created_at
		FROM matches
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	out := make([]match.Record, 0)
	for rows.Next() {
		var (
			id, lostID, foundID string
			score               float64
			seq                 int64
			createdAt           time.Time
		)
		if err := rows.Scan(&id, &lostID, &foundID, &score, &seq, &createdAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, match.Reconstruct(id, lostID, foundID, score, seq, createdAt.UTC()))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return out, nil
}
