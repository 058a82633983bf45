package holidays

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"workdays/internal/logging"
	"workdays/internal/metrics"
	"workdays/internal/schedule"
	"workdays/internal/store/holidaydb"
)

// Snapshot is an immutable holiday set and where it came from.
type Snapshot struct {
	Holidays  schedule.HolidaySet
	FetchedAt time.Time
	Source    string
}

// Age is the time since the snapshot was fetched.
func (s *Snapshot) Age(now time.Time) time.Duration { return now.Sub(s.FetchedAt) }

// Store persists the last good holiday list across restarts.
type Store interface {
	SaveSnapshot(ctx context.Context, s holidaydb.Snapshot) error
	LatestSnapshot(ctx context.Context) (holidaydb.Snapshot, error)
}

// Provider hands out the current holiday set. Refreshes replace the snapshot
// atomically on success, so readers see either the old or the new set, never
// a partial one, and never wait for a background refresh. A failed refresh
// keeps the previous snapshot.
type Provider struct {
	source Source
	store  Store
	now    func() time.Time

	current atomic.Pointer[Snapshot]
	group   singleflight.Group
}

// NewProvider builds a provider. store may be nil.
func NewProvider(source Source, store Store) *Provider {
	return &Provider{source: source, store: store, now: time.Now}
}

// Current returns the loaded snapshot, or nil before the first successful load.
func (p *Provider) Current() *Snapshot { return p.current.Load() }

// Ready reports whether a snapshot is loaded.
func (p *Provider) Ready() bool { return p.current.Load() != nil }

// fetchTimeout bounds a shared fetch, which runs detached from the caller that started it.
const fetchTimeout = 30 * time.Second

// Holidays returns the current set. Only when nothing is loaded yet does it
// fetch synchronously; concurrent callers share that one fetch.
func (p *Provider) Holidays(ctx context.Context) (schedule.HolidaySet, error) {
	if s := p.current.Load(); s != nil {
		return s.Holidays, nil
	}
	if err := p.shared(ctx, true); err != nil {
		return schedule.HolidaySet{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return p.current.Load().Holidays, nil
}

// Refresh fetches the list and swaps the snapshot. Concurrent calls collapse into one fetch.
func (p *Provider) Refresh(ctx context.Context) error {
	return p.shared(ctx, false)
}

// shared runs one fetch for all concurrent callers. A caller whose ctx ends
// stops waiting, but the fetch keeps going for the others.
func (p *Provider) shared(ctx context.Context, skipIfLoaded bool) error {
	ch := p.group.DoChan("refresh", func() (any, error) {
		if skipIfLoaded && p.current.Load() != nil {
			return nil, nil
		}
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return nil, p.refresh(fctx)
	})
	select {
	case r := <-ch:
		return r.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Provider) refresh(ctx context.Context) error {
	raw, err := p.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch holidays from %s: %w", p.source.Name(), err)
	}
	set, err := schedule.ParseHolidaySet(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	snap := &Snapshot{Holidays: set, FetchedAt: p.now().UTC(), Source: p.source.Name()}
	p.current.Store(snap)
	metrics.SetSnapshot(set.Len(), snap.FetchedAt)

	if p.store != nil {
		err := p.store.SaveSnapshot(ctx, holidaydb.Snapshot{FetchedAt: snap.FetchedAt, Source: snap.Source, Dates: set.Strings()})
		if err != nil {
			logging.Warn("holiday_snapshot_save_error", map[string]any{"error": err.Error()})
		}
	}
	return nil
}

// Seed loads the last stored list when nothing is loaded yet. A missing store
// or an empty one is not an error.
func (p *Provider) Seed(ctx context.Context) error {
	if p.store == nil {
		return nil
	}
	stored, err := p.store.LatestSnapshot(ctx)
	if errors.Is(err, holidaydb.ErrNoSnapshot) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load stored holidays: %w", err)
	}
	set, err := schedule.ParseHolidaySet(stored.Dates)
	if err != nil {
		return fmt.Errorf("stored holidays: %w", err)
	}
	snap := &Snapshot{Holidays: set, FetchedAt: stored.FetchedAt, Source: "store"}
	if p.current.CompareAndSwap(nil, snap) {
		metrics.SetSnapshot(set.Len(), snap.FetchedAt)
		logging.Info("holiday_snapshot_seeded", map[string]any{"count": set.Len(), "fetched_at": snap.FetchedAt})
	}
	return nil
}
