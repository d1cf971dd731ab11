// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/saborlabs/receitaria/internal/platform/clock"
)

// SweepRecorder is the metrics surface the sweeper reports into.
type SweepRecorder interface {
	RecordSweep(removed int64)
}

// Sweeper removes expired blocklist entries once per day at a fixed
// wall-clock time.
//
// # Scheduling
//
// The sweeper computes the next occurrence of its configured HH:MM and
// sleeps until then. After each run it schedules the following day. Missing
// a slot (process restart, clock jump) is harmless: expired entries never
// grant access, they only occupy storage until the next sweep.
type Sweeper struct {
	blockedRepository BlockedTokenRepository
	clock             clock.Clock
	logger            *slog.Logger
	recorder          SweepRecorder

	hour   int
	minute int
}

// NewSweeper constructs a [Sweeper] firing daily at the given "HH:MM".
func NewSweeper(
	blockedRepo BlockedTokenRepository,
	clk clock.Clock,
	logger *slog.Logger,
	recorder SweepRecorder,
	at string,
) (*Sweeper, error) {
	hour, minute, err := parseSweepTime(at)
	if err != nil {
		return nil, err
	}

	return &Sweeper{
		blockedRepository: blockedRepo,
		clock:             clk,
		logger:            logger,
		recorder:          recorder,
		hour:              hour,
		minute:            minute,
	}, nil
}

// Run blocks until the context is canceled, sweeping once per day.
// Intended to be launched as a goroutine from main.
func (sweeper *Sweeper) Run(ctx context.Context) {
	for {
		now := sweeper.clock.Now()
		next := sweeper.nextRun(now)

		sweeper.logger.Info("blocklist_sweep_scheduled",
			slog.Time("next_run", next),
		)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			sweeper.logger.Info("blocklist_sweeper_stopped")
			return
		case <-timer.C:
			sweeper.sweep(ctx)
		}
	}
}

// sweep performs a single purge pass, bounded by [SweepTimeout].
func (sweeper *Sweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, SweepTimeout)
	defer cancel()

	removed, err := sweeper.blockedRepository.PurgeExpired(sweepCtx, sweeper.clock.Now())
	if err != nil {
		// A failed sweep is retried tomorrow; entries never grant access.
		sweeper.logger.Error("blocklist_sweep_failed", slog.Any("error", err))
		return
	}

	sweeper.recorder.RecordSweep(removed)
	sweeper.logger.Info("blocklist_sweep_completed", slog.Int64("removed", removed))
}

// nextRun returns the next occurrence of the configured wall-clock time
// strictly after now.
func (sweeper *Sweeper) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), sweeper.hour, sweeper.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// parseSweepTime parses an "HH:MM" schedule string.
func parseSweepTime(at string) (hour, minute int, err error) {
	parts := strings.Split(at, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("sweeper: invalid schedule %q (want HH:MM)", at)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("sweeper: invalid hour in schedule %q", at)
	}

	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("sweeper: invalid minute in schedule %q", at)
	}

	return hour, minute, nil
}
