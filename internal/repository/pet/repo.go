// Package pet stores pet reports over the db facade: one JSON value per report
// plus creation-ordered indexes, overall and per status.
package pet

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/petmatch/internal/domain"
	"github.com/kailas-cloud/petmatch/internal/domain/report"
	"github.com/kailas-cloud/petmatch/internal/logger"
)

var (
	keyPrefix = domain.KeyPrefix + "pets:"
	allIndex  = keyPrefix + "idx"
)

// store is the consumer interface for pet reports (ISP).
type store interface {
	SetIndexed(ctx context.Context, key string, value []byte, score float64, indexes ...string) error
	DelIndexed(ctx context.Context, key string, indexes ...string) (bool, error)
	Members(ctx context.Context, index string) ([]string, error)
	MGet(ctx context.Context, keys []string) ([][]byte, error)
}

// Repo implements usecase/matching.PetRepository.
type Repo struct {
	store store
	newID func() string
}

// New creates a pet repository.
func New(s store) *Repo {
	return &Repo{store: s, newID: uuid.NewString}
}

// Insert assigns a new id to r and stores it.
func (r *Repo) Insert(ctx context.Context, rep *report.Report) (string, error) {
	id := r.newID()
	rep.SetID(id)

	data, err := json.Marshal(toDoc(rep))
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	key := petKey(id)
	score := float64(rep.CreatedAt().UnixMicro())
	if err := r.store.SetIndexed(ctx, key, data, score, allIndex, statusIndex(rep.Status())); err != nil {
		return "", fmt.Errorf("store report %s: %w", id, err)
	}
	return id, nil
}

// Find returns reports matching f in creation order.
// Reports deleted between the index read and the fetch are skipped.
func (r *Repo) Find(ctx context.Context, f report.Filter) ([]report.Report, error) {
	index := allIndex
	if f.Status != nil {
		index = statusIndex(*f.Status)
	}

	keys, err := r.store.Members(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", index, err)
	}
	if len(keys) == 0 {
		return []report.Report{}, nil
	}

	values, err := r.store.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch reports: %w", err)
	}

	out := make([]report.Report, 0, len(values))
	for i, raw := range values {
		if raw == nil {
			continue
		}
		var d petDoc
		if err := json.Unmarshal(raw, &d); err != nil {
			logger.FromContext(ctx).Warn("Skipping undecodable report",
				zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		rep := fromDoc(idFromKey(keys[i]), &d)
		if f.Matches(&rep) {
			out = append(out, rep)
		}
	}
	return out, nil
}

// Delete removes a report and its index entries, reporting whether it existed.
func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	existed, err := r.store.DelIndexed(ctx, petKey(id),
		allIndex, statusIndex(report.StatusLost), statusIndex(report.StatusFound))
	if err != nil {
		return existed, fmt.Errorf("delete report %s: %w", id, err)
	}
	return existed, nil
}

func petKey(id string) string { return keyPrefix + id }

func idFromKey(key string) string { return strings.TrimPrefix(key, keyPrefix) }

func statusIndex(s report.Status) string { return keyPrefix + "status:" + string(s) }
