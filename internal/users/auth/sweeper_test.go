// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestParseSweepTime validates the "HH:MM" schedule parser.
*/
func TestParseSweepTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		hour    int
		minute  int
		wantErr bool
	}{
		{"default_schedule", "03:00", 3, 0, false},
		{"midnight", "00:00", 0, 0, false},
		{"end_of_day", "23:59", 23, 59, false},
		{"missing_minute", "03", 0, 0, true},
		{"hour_out_of_range", "24:00", 0, 0, true},
		{"minute_out_of_range", "03:60", 0, 0, true},
		{"not_a_number", "ab:cd", 0, 0, true},
		{"empty", "", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute, err := parseSweepTime(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.minute, minute)
		})
	}
}

/*
TestSweeper_NextRun checks the daily scheduling arithmetic around the
configured wall-clock time.
*/
func TestSweeper_NextRun(t *testing.T) {
	sweeper := &Sweeper{hour: 3, minute: 0}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"before_slot_runs_same_day",
			time.Date(2026, 8, 20, 1, 30, 0, 0, time.UTC),
			time.Date(2026, 8, 20, 3, 0, 0, 0, time.UTC),
		},
		{
			"after_slot_runs_next_day",
			time.Date(2026, 8, 20, 3, 0, 1, 0, time.UTC),
			time.Date(2026, 8, 21, 3, 0, 0, 0, time.UTC),
		},
		{
			"exactly_on_slot_runs_next_day",
			time.Date(2026, 8, 20, 3, 0, 0, 0, time.UTC),
			time.Date(2026, 8, 21, 3, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, sweeper.nextRun(tt.now).Equal(tt.want))
		})
	}
}

/*
TestNewSweeper_RejectsBadSchedule ensures construction fails fast on a
malformed schedule string.
*/
func TestNewSweeper_RejectsBadSchedule(t *testing.T) {
	_, err := NewSweeper(nil, nil, nil, nil, "25:00")
	require.Error(t, err)
}

type purgeProbe struct {
	hadDeadline bool
	removed     int64
	err         error
}

func (p *purgeProbe) Add(context.Context, string, time.Time) error { return nil }

func (p *purgeProbe) IsBlocked(context.Context, string) (bool, error) { return false, nil }

func (p *purgeProbe) PurgeExpired(ctx context.Context, _ time.Time) (int64, error) {
	_, p.hadDeadline = ctx.Deadline()
	return p.removed, p.err
}

type recordingSweepRecorder struct {
	sweeps  int
	removed int64
}

func (r *recordingSweepRecorder) RecordSweep(removed int64) {
	r.sweeps++
	r.removed += removed
}

type frozenClock struct {
	at time.Time
}

func (c frozenClock) Now() time.Time { return c.at }

/*
TestSweeper_Sweep covers a single purge pass: the storage call must run
under a deadline so a hung delete cannot wedge the goroutine, and failures
must not reach the recorder.
*/
func TestSweeper_Sweep(t *testing.T) {
	newSweeper := func(repo BlockedTokenRepository, recorder SweepRecorder) *Sweeper {
		return &Sweeper{
			blockedRepository: repo,
			clock:             frozenClock{at: time.Date(2026, 8, 20, 3, 0, 0, 0, time.UTC)},
			logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
			recorder:          recorder,
			hour:              3,
			minute:            0,
		}
	}

	t.Run("purge_runs_under_deadline", func(t *testing.T) {
		probe := &purgeProbe{removed: 7}
		recorder := &recordingSweepRecorder{}
		sweeper := newSweeper(probe, recorder)

		sweeper.sweep(context.Background())

		assert.True(t, probe.hadDeadline, "purge must be bounded by a timeout")
		assert.Equal(t, 1, recorder.sweeps)
		assert.Equal(t, int64(7), recorder.removed)
	})

	t.Run("failed_purge_is_not_recorded", func(t *testing.T) {
		probe := &purgeProbe{err: errors.New("connection lost")}
		recorder := &recordingSweepRecorder{}
		sweeper := newSweeper(probe, recorder)

		sweeper.sweep(context.Background())

		assert.Equal(t, 0, recorder.sweeps)
	})
}
