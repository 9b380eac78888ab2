// Package db defines the record store facade shared by the redis and memory backends.
package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
type Store interface {
	Pinger
	KVStore
	IndexedStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// MGet returns one entry per key; missing keys yield nil.
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// IndexedStore keeps values together with their entries in ordered indexes.
// Index members are the value keys, ordered by score ascending.
type IndexedStore interface {
	SetIndexed(ctx context.Context, key string, value []byte, score float64, indexes ...string) error
	// DelIndexed reports whether key existed. Index entries are removed regardless.
	DelIndexed(ctx context.Context, key string, indexes ...string) (bool, error)
	Members(ctx context.Context, index string) ([]string, error)
}
