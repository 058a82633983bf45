package jobs

import (
	"context"
	"time"

	"workdays/internal/logging"
	"workdays/internal/metrics"
	"workdays/internal/store/holidaydb"
)

// keepSnapshots bounds how many holiday lists the store retains.
const keepSnapshots = 48

// Refresher is the part of holidays.Provider the loop drives.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RunRefreshOnce refreshes the holiday list and records metrics. On failure the
// provider keeps serving its previous snapshot.
func RunRefreshOnce(ctx context.Context, p Refresher, db *holidaydb.DB) error {
	start := time.Now()
	metrics.HolidayRefreshes.Inc()
	if err := p.Refresh(ctx); err != nil {
		metrics.HolidayRefreshErrors.Inc()
		return err
	}
	metrics.ObserveRefreshDuration(start)
	if db != nil {
		if n, err := db.Prune(ctx, keepSnapshots); err != nil {
			logging.Warn("holiday_snapshot_prune_error", map[string]any{"error": err.Error()})
		} else if n > 0 {
			logging.Debug("holiday_snapshot_pruned", map[string]any{"removed": n})
		}
	}
	logging.Info("holiday_refresh_ok", map[string]any{"duration_ms": time.Since(start).Milliseconds()})
	return nil
}

// RunRefreshLoop runs RunRefreshOnce immediately and then on a ticker until ctx is cancelled.
func RunRefreshLoop(ctx context.Context, p Refresher, db *holidaydb.DB, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	if err := RunRefreshOnce(ctx, p, db); err != nil {
		logging.Error("holiday_refresh_error", map[string]any{"error": err.Error()})
	}
	for {
		select {
		case <-ctx.Done():
			logging.Info("holiday_refresh_loop_stop", nil)
			return ctx.Err()
		case <-t.C:
			if err := RunRefreshOnce(ctx, p, db); err != nil {
				logging.Error("holiday_refresh_error", map[string]any{"error": err.Error()})
			}
		}
	}
}
