package service

import (
	"context"
	"strconv"
	"time"

	"github.com/claude/vitalsync/internal/metrics"
	"github.com/claude/vitalsync/internal/models"
)

// RecordWorkout applies one workout completion to the streak: same-day
// repeats leave the count untouched, a new day within the grace window
// extends it, and a longer gap resets it to 1. Safe to call with events
// out of sync with the cycle schedule.
func (c *Coordinator) RecordWorkout(ctx context.Context, completedAt time.Time) models.StreakState {
	c.mu.Lock()

	last := c.streak.LastWorkoutDate
	switch {
	case metrics.ShouldResetStreak(last, completedAt):
		c.streak.Current = 1
	case metrics.IsNewWorkoutDay(last, completedAt):
		c.streak.Current++
	}
	if c.streak.Current > c.streak.Longest {
		c.streak.Longest = c.streak.Current
	}
	t := completedAt
	c.streak.LastWorkoutDate = &t

	streak := c.streak
	c.mu.Unlock()

	c.sink.SetStreak(streak)
	c.persistStreak(ctx, streak)
	return streak
}

// Streak returns the current streak state.
func (c *Coordinator) Streak() models.StreakState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streak
}

// recordSyncedWorkouts feeds workouts discovered during a sync into the
// streak. RecordWorkout is idempotent per calendar day, so re-syncing the
// same day never inflates the count.
func (c *Coordinator) recordSyncedWorkouts(ctx context.Context, today models.DailyHealthSummary) {
	for _, w := range today.Workouts {
		c.RecordWorkout(ctx, w.End)
	}
}

// restoreState loads the persisted streak and last-sync timestamp so
// restarts do not lose them. Missing or malformed values start fresh.
func (c *Coordinator) restoreState(ctx context.Context) {
	if c.store == nil {
		return
	}

	var streak models.StreakState
	if v, err := c.store.GetSyncState(ctx, stateStreakCurrent); err == nil && v != "" {
		streak.Current, _ = strconv.Atoi(v)
	}
	if v, err := c.store.GetSyncState(ctx, stateStreakLongest); err == nil && v != "" {
		streak.Longest, _ = strconv.Atoi(v)
	}
	if v, err := c.store.GetSyncState(ctx, stateStreakLastWorkout); err == nil && v != "" {
		if t, perr := time.Parse(time.RFC3339, v); perr == nil {
			streak.LastWorkoutDate = &t
		}
	}

	c.mu.Lock()
	c.streak = streak
	if v, err := c.store.GetSyncState(ctx, stateLastSyncAt); err == nil && v != "" {
		if t, perr := time.Parse(time.RFC3339, v); perr == nil {
			c.lastSyncAt = t
		}
	}
	c.mu.Unlock()

	if streak.Current > 0 || streak.Longest > 0 {
		c.sink.SetStreak(streak)
	}
}

func (c *Coordinator) persistStreak(ctx context.Context, streak models.StreakState) {
	if c.store == nil {
		return
	}
	set := func(key, value string) {
		if err := c.store.SetSyncState(ctx, key, value); err != nil {
			c.log.Warn("persisting streak failed", "key", key, "error", err)
		}
	}
	set(stateStreakCurrent, strconv.Itoa(streak.Current))
	set(stateStreakLongest, strconv.Itoa(streak.Longest))
	if streak.LastWorkoutDate != nil {
		set(stateStreakLastWorkout, streak.LastWorkoutDate.Format(time.RFC3339))
	}
}
