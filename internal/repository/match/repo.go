// Package match stores the append-only match records over the db facade.
package match

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/petmatch/internal/domain"
	dommatch "github.com/kailas-cloud/petmatch/internal/domain/match"
	"github.com/kailas-cloud/petmatch/internal/logger"
)

var (
	keyPrefix = domain.KeyPrefix + "matches:"
	seqKey    = keyPrefix + "seq"
	index     = keyPrefix + "idx"
)

// store is the consumer interface for match records (ISP).
type store interface {
	Incr(ctx context.Context, key string) (int64, error)
	SetIndexed(ctx context.Context, key string, value []byte, score float64, indexes ...string) error
	Members(ctx context.Context, index string) ([]string, error)
	MGet(ctx context.Context, keys []string) ([][]byte, error)
}

type matchDoc struct {
	LostID    string    `json:"lost_id"`
	FoundID   string    `json:"found_id"`
	Score     float64   `json:"match_score"`
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repo implements usecase/matching.MatchRepository.
type Repo struct {
	store store
	newID func() string
}

// New creates a match repository.
func New(s store) *Repo {
	return &Repo{store: s, newID: uuid.NewString}
}

// Insert draws the next sequence number and stores m, assigning id and sequence.
func (r *Repo) Insert(ctx context.Context, m *dommatch.Record) (string, error) {
	seq, err := r.store.Incr(ctx, seqKey)
	if err != nil {
		return "", fmt.Errorf("next match sequence: %w", err)
	}
	id := r.newID()

	data, err := json.Marshal(matchDoc{
		LostID:    m.LostID(),
		FoundID:   m.FoundID(),
		Score:     m.Score(),
		Seq:       seq,
		CreatedAt: m.CreatedAt(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal match: %w", err)
	}

	if err := r.store.SetIndexed(ctx, keyPrefix+id, data, float64(seq), index); err != nil {
		return "", fmt.Errorf("store match %s: %w", id, err)
	}
	m.Assign(id, seq)
	return id, nil
}

// List returns every match record in creation order.
func (r *Repo) List(ctx context.Context) ([]dommatch.Record, error) {
	keys, err := r.store.Members(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("read match index: %w", err)
	}
	if len(keys) == 0 {
		return []dommatch.Record{}, nil
	}

	values, err := r.store.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch matches: %w", err)
	}

	out := make([]dommatch.Record, 0, len(values))
	for i, raw := range values {
		if raw == nil {
			continue
		}
		var d matchDoc
		if err := json.Unmarshal(raw, &d); err != nil {
			logger.FromContext(ctx).Warn("Skipping undecodable match",
				zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		id := strings.TrimPrefix(keys[i], keyPrefix)
		out = append(out, dommatch.Reconstruct(id, d.LostID, d.FoundID, d.Score, d.Seq, d.CreatedAt))
	}
	return out, nil
}
