package pet

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/kailas-cloud/petmatch/internal/db/memory"
	"github.com/kailas-cloud/petmatch/internal/domain/report"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	setIndexedFn func(ctx context.Context, key string, value []byte, score float64, indexes ...string) error
	delIndexedFn func(ctx context.Context, key string, indexes ...string) (bool, error)
	membersFn    func(ctx context.Context, index string) ([]string, error)
	mgetFn       func(ctx context.Context, keys []string) ([][]byte, error)
}

func (m *mockStore) SetIndexed(ctx context.Context, key string, value []byte, score float64, indexes ...string) error {
	if m.setIndexedFn != nil {
		return m.setIndexedFn(ctx, key, value, score, indexes...)
	}
	return nil
}

func (m *mockStore) DelIndexed(ctx context.Context, key string, indexes ...string) (bool, error) {
	if m.delIndexedFn != nil {
		return m.delIndexedFn(ctx, key, indexes...)
	}
	return true, nil
}

func (m *mockStore) Members(ctx context.Context, index string) ([]string, error) {
	if m.membersFn != nil {
		return m.membersFn(ctx, index)
	}
	return nil, nil
}

func (m *mockStore) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if m.mgetFn != nil {
		return m.mgetFn(ctx, keys)
	}
	return make([][]byte, len(keys)), nil
}

// newMemoryRepo returns a repo over the in-memory store with sequential ids.
func newMemoryRepo() *Repo {
	r := New(memory.NewStore())
	n := 0
	r.newID = func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
	return r
}

func mustReport(t *testing.T, f report.Fields, at time.Time) *report.Report {
	t.Helper()
	r, err := report.New(f, at)
	if err != nil {
		t.Fatalf("report.New: %v", err)
	}
	return &r
}
