package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/petmatch/internal/db"
)

func TestGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	value := []byte("v1")
	if err := s.Set(ctx, "k", value); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value[0] = 'x'

	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v1" {
		t.Errorf("Get = %q, %v (stored value must be a copy)", got, err)
	}
}

func TestSetWithTTL_Expires(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if err := s.SetWithTTL(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	now = now.Add(time.Minute)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected expiry, got %v", err)
	}
}

func TestMGet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_ = s.Set(ctx, "a", []byte("1"))
	_ = s.Set(ctx, "c", []byte("3"))

	vals, err := s.MGet(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("MGet: %v", err)
	}
	if string(vals[0]) != "1" || vals[1] != nil || string(vals[2]) != "3" {
		t.Errorf("MGet = %q", vals)
	}
}

func TestIncr_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Incr(ctx, "seq")
		}()
	}
	wg.Wait()

	n, err := s.Incr(ctx, "seq")
	if err != nil || n != 51 {
		t.Errorf("Incr = %d, %v, want 51", n, err)
	}
}

func TestIndexedOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_ = s.SetIndexed(ctx, "p:3", []byte("3"), 30, "all")
	_ = s.SetIndexed(ctx, "p:1", []byte("1"), 10, "all", "lost")
	_ = s.SetIndexed(ctx, "p:2", []byte("2"), 10, "all", "lost")

	all, _ := s.Members(ctx, "all")
	want := []string{"p:1", "p:2", "p:3"}
	for i := range want {
		if all[i] != want[i] {
			t.Fatalf("Members(all) = %v, want %v", all, want)
		}
	}

	lost, _ := s.Members(ctx, "lost")
	if len(lost) != 2 {
		t.Errorf("Members(lost) = %v", lost)
	}
}

func TestDelIndexed_ExactlyOnce(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_ = s.SetIndexed(ctx, "p:1", []byte("1"), 1, "all", "lost")

	var wg sync.WaitGroup
	var mu sync.Mutex
	removed := 0
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := s.DelIndexed(ctx, "p:1", "all", "lost")
			if ok {
				mu.Lock()
				removed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if removed != 1 {
		t.Errorf("expected exactly one successful delete, got %d", removed)
	}
	if m, _ := s.Members(ctx, "lost"); len(m) != 0 {
		t.Errorf("index not cleaned: %v", m)
	}
}

func TestMembers_UnknownIndex(t *testing.T) {
	m, err := NewStore().Members(context.Background(), "nope")
	if err != nil || len(m) != 0 {
		t.Errorf("Members = %v, %v", m, err)
	}
}
