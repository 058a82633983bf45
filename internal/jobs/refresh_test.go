package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"workdays/internal/holidays"
	"workdays/internal/store/holidaydb"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) Refresh(ctx context.Context) error {
	c.calls.Add(1)
	return c.err
}

type staticSource struct{ dates []string }

func (s staticSource) Name() string                                { return "static" }
func (s staticSource) Fetch(ctx context.Context) ([]string, error) { return s.dates, nil }

func TestRunRefreshOnceStoresAndPrunes(t *testing.T) {
	db, err := holidaydb.Open(":memory:")
	if err != nil { t.Fatal(err) }
	defer db.Close()
	ctx := context.Background()
	p := holidays.NewProvider(staticSource{dates: []string{"2025-01-01"}}, db)
	for i := 0; i < keepSnapshots+3; i++ {
		if err := RunRefreshOnce(ctx, p, db); err != nil { t.Fatal(err) }
	}
	n, err := db.Count(ctx)
	if err != nil || n != keepSnapshots { t.Fatalf("expected %d stored snapshots, got %d (%v)", keepSnapshots, n, err) }
	if !p.Ready() { t.Fatal("provider should be ready") }
}

func TestRunRefreshOnceReturnsError(t *testing.T) {
	r := &countingRefresher{err: errors.New("boom")}
	if err := RunRefreshOnce(context.Background(), r, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunRefreshLoopTicksUntilCancelled(t *testing.T) {
	r := &countingRefresher{err: errors.New("still down")}
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	err := RunRefreshLoop(ctx, r, nil, 20*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if r.calls.Load() < 2 {
		t.Fatalf("expected several ticks, got %d", r.calls.Load())
	}
}
