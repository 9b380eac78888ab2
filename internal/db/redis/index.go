package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/petmatch/internal/db"
)

// SetIndexed stores value and adds key to each sorted-set index in one DoMulti round-trip.
func (s *Store) SetIndexed(ctx context.Context, key string, value []byte, score float64, indexes ...string) error {
	cmds := make(rueidis.Commands, 0, len(indexes)+1)
	cmds = append(cmds, s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Build())
	for _, idx := range indexes {
		cmds = append(cmds, s.b().Zadd().Key(idx).ScoreMember().ScoreMember(score, key).Build())
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			if i == 0 {
				return &db.Error{Op: db.OpSet, Err: fmt.Errorf("key %s: %w", key, err)}
			}
			return &db.Error{Op: db.OpZAdd, Err: fmt.Errorf("index %s: %w", indexes[i-1], err)}
		}
	}
	return nil
}

// DelIndexed deletes key and removes it from each index in one DoMulti round-trip.
// The DEL count decides existence, so concurrent callers see exactly one true.
func (s *Store) DelIndexed(ctx context.Context, key string, indexes ...string) (bool, error) {
	cmds := make(rueidis.Commands, 0, len(indexes)+1)
	cmds = append(cmds, s.b().Del().Key(key).Build())
	for _, idx := range indexes {
		cmds = append(cmds, s.b().Zrem().Key(idx).Member(key).Build())
	}

	results := s.client.DoMulti(ctx, cmds...)
	removed, err := results[0].AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpDel, Err: fmt.Errorf("key %s: %w", key, err)}
	}
	for i, res := range results[1:] {
		if err := res.Error(); err != nil {
			return removed > 0, &db.Error{Op: db.OpZRem, Err: fmt.Errorf("index %s: %w", indexes[i], err)}
		}
	}
	return removed > 0, nil
}

// Members returns index members ordered by score ascending.
func (s *Store) Members(ctx context.Context, index string) ([]string, error) {
	cmd := s.b().Zrange().Key(index).Min("0").Max("-1").Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRange, Err: err}
	}
	return members, nil
}
