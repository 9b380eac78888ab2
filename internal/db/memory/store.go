// Package memory implements the db.Store facade in process memory.
// Data does not survive a restart.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/kailas-cloud/petmatch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

type member struct {
	score float64
	// seq breaks score ties in insertion order.
	seq uint64
}

// Store is a mutex-guarded map store with sorted-set style indexes.
type Store struct {
	mu      sync.RWMutex
	values  map[string]entry
	indexes map[string]map[string]member
	seq     uint64
	now     func() time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		values:  make(map[string]entry),
		indexes: make(map[string]map[string]member),
		now:     time.Now,
	}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.values[key]
	if !ok || e.expired(s.now()) {
		return nil, db.ErrKeyNotFound
	}
	return clone(e.value), nil
}

// Set stores a value at the given key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = entry{value: clone(value)}
	return nil
}

// SetWithTTL stores a value that expires after ttl.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = entry{value: clone(value), expiresAt: s.now().Add(ttl)}
	return nil
}

// MGet fetches many keys. Missing keys yield nil entries.
func (s *Store) MGet(_ context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make([][]byte, len(keys))
	for i, k := range keys {
		if e, ok := s.values[k]; ok && !e.expired(now) {
			out[i] = clone(e.value)
		}
	}
	return out, nil
}

// Incr increments a decimal counter, starting from zero.
func (s *Store) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	if e, ok := s.values[key]; ok && !e.expired(s.now()) {
		parsed, err := strconv.ParseInt(string(e.value), 10, 64)
		if err != nil {
			return 0, &db.Error{Op: db.OpIncr, Err: err}
		}
		n = parsed
	}
	n++
	s.values[key] = entry{value: []byte(strconv.FormatInt(n, 10))}
	return n, nil
}

// SetIndexed stores value and adds key to every index atomically.
func (s *Store) SetIndexed(_ context.Context, key string, value []byte, score float64, indexes ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = entry{value: clone(value)}
	for _, idx := range indexes {
		set, ok := s.indexes[idx]
		if !ok {
			set = make(map[string]member)
			s.indexes[idx] = set
		}
		s.seq++
		set[key] = member{score: score, seq: s.seq}
	}
	return nil
}

// DelIndexed deletes key and its index entries atomically, reporting whether it existed.
func (s *Store) DelIndexed(_ context.Context, key string, indexes ...string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.values[key]
	delete(s.values, key)
	for _, idx := range indexes {
		delete(s.indexes[idx], key)
	}
	return existed, nil
}

// Members returns index members ordered by score, then insertion.
func (s *Store) Members(_ context.Context, index string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.indexes[index]
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := set[keys[i]], set[keys[j]]
		if a.score != b.score {
			return a.score < b.score
		}
		return a.seq < b.seq
	})
	return keys, nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
