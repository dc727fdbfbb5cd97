// Package maintenance runs periodic background tasks as Go tickers: inbox
// cleanup, daily and weekly notification digests, and a catch-up sweep for
// claim events the listener missed.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/classactionfinder/finder-data/internal/notifications"
)

// Store is the persistence the maintenance tasks need. Implemented by
// internal/store.
type Store interface {
	PurgeRead(ctx context.Context, olderThanDays int) (int64, error)
	CatchUpClaimUpdates(ctx context.Context, window time.Duration) (int64, error)
}

// Digester folds unread notifications into digests for every user on a
// frequency. Implemented by notifications.Service.
type Digester interface {
	DigestSweep(ctx context.Context, frequency notifications.Frequency) (users, summaries int, err error)
}

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	CleanupInterval time.Duration // Old read notifications
	DigestInterval  time.Duration // How often digest due-ness is checked
	CatchUpInterval time.Duration // Sweep for missed NOTIFY events
	RetentionDays   int           // Read notifications older than this are purged
	DigestHour      int           // Local hour digests become due
	Location        *time.Location
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, store Store, digester Digester, cfg Config, logger *slog.Logger) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	logger.Info("Maintenance tickers started",
		"cleanup", cfg.CleanupInterval,
		"digest", cfg.DigestInterval,
		"catchup", cfg.CatchUpInterval)

	tickers := make([]*time.Ticker, 0, 3)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	// Cleanup: remove read notifications past retention
	if cfg.CleanupInterval > 0 {
		t := time.NewTicker(cfg.CleanupInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { cleanup(ctx, store, cfg.RetentionDays, logger) })
	}

	// Digest: fold unread notifications for daily/weekly users once per period
	if cfg.DigestInterval > 0 {
		t := time.NewTicker(cfg.DigestInterval)
		tickers = append(tickers, t)
		sched := &DigestSchedule{Hour: cfg.DigestHour}
		go runLoop(ctx, t.C, func() {
			runDigests(ctx, digester, sched, time.Now().In(cfg.Location), logger)
		})
	}

	// Catch-up: sweep for NOTIFY events missed during downtime
	if cfg.CatchUpInterval > 0 {
		t := time.NewTicker(cfg.CatchUpInterval)
		tickers = append(tickers, t)
		// Overlap the window so events near a tick boundary are not lost.
		window := 2 * cfg.CatchUpInterval
		go runLoop(ctx, t.C, func() { catchUpSweep(ctx, store, window, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Digest schedule
// --------------------------------------------------------------------------

// DigestSchedule tracks which digest periods have already run. Daily digests
// are due once per calendar day from Hour on; weekly digests once per ISO
// week, on Monday from Hour on. Not safe for concurrent use.
type DigestSchedule struct {
	Hour       int
	lastDaily  string
	lastWeekly string
}

// Due reports which frequencies should be swept at now and records them as
// done. now must be in the digest time zone.
func (s *DigestSchedule) Due(now time.Time) []notifications.Frequency {
	if now.Hour() < s.Hour {
		return nil
	}
	var due []notifications.Frequency

	day := now.Format("2006-01-02")
	if day != s.lastDaily {
		s.lastDaily = day
		due = append(due, notifications.FrequencyDaily)
	}

	if now.Weekday() == time.Monday {
		year, week := now.ISOWeek()
		key := fmt.Sprintf("%d-W%02d", year, week)
		if key != s.lastWeekly {
			s.lastWeekly = key
			due = append(due, notifications.FrequencyWeekly)
		}
	}
	return due
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// cleanup removes read notifications older than the retention period.
func cleanup(ctx context.Context, store Store, retentionDays int, logger *slog.Logger) {
	n, err := store.PurgeRead(ctx, retentionDays)
	if err != nil {
		logger.Warn("Cleanup: failed to purge old notifications", "error", err)
		return
	}
	if n > 0 {
		logger.Info("Cleanup: purged old notifications", "count", n)
	}
}

// runDigests sweeps every frequency that is due.
func runDigests(ctx context.Context, digester Digester, sched *DigestSchedule, now time.Time, logger *slog.Logger) {
	for _, freq := range sched.Due(now) {
		users, summaries, err := digester.DigestSweep(ctx, freq)
		if err != nil {
			logger.Warn("Digest sweep failed", "frequency", freq, "error", err)
			continue
		}
		logger.Info("Digest sweep complete",
			"frequency", freq, "users", users, "summaries", summaries)
	}
}

// catchUpSweep creates claim_update notifications for status changes whose
// NOTIFY was never processed.
func catchUpSweep(ctx context.Context, store Store, window time.Duration, logger *slog.Logger) {
	n, err := store.CatchUpClaimUpdates(ctx, window)
	if err != nil {
		logger.Warn("Catch-up sweep: failed", "error", err)
		return
	}
	if n > 0 {
		logger.Info("Catch-up sweep: created missed notifications", "count", n)
	}
}
