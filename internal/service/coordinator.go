// Package service contains the sync coordinator: the component that decides
// when to pull telemetry from the health provider, turns raw samples into
// daily summaries, and publishes them.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/claude/vitalsync/internal/journal"
	"github.com/claude/vitalsync/internal/metrics"
	"github.com/claude/vitalsync/internal/models"
	"github.com/claude/vitalsync/internal/provider"
	"golang.org/x/sync/errgroup"
)

// DefaultSyncInterval is both the periodic resync cadence and the staleness
// threshold for foreground-resume syncs.
const DefaultSyncInterval = 15 * time.Minute

// A sync cycle covers today plus this many prior days.
const weekWindowDays = 7

// Training load needs the chronic window of history.
const loadHistoryDays = 28

// Persisted sync-state keys.
const (
	stateLastSyncAt        = "last_sync_at"
	stateStreakCurrent     = "streak_current"
	stateStreakLongest     = "streak_longest"
	stateStreakLastWorkout = "streak_last_workout"
)

// Sink is the published-state collaborator the coordinator writes to.
// Satisfied by state.Store.
type Sink interface {
	SetSupport(supported bool, perms models.PermissionStatus)
	SetSyncing(v bool)
	PublishSummaries(today models.DailyHealthSummary, week []models.DailyHealthSummary, at time.Time)
	SetSyncError(err error)
	SetStreak(streak models.StreakState)
	TodaySummary() *models.DailyHealthSummary
}

// SummaryStore persists summaries and sync state durably. Optional: a nil
// store degrades to in-memory published state only.
type SummaryStore interface {
	UpsertDailySummaries(ctx context.Context, summaries []models.DailyHealthSummary) error
	GetDailySummaries(ctx context.Context, from, to string) ([]models.DailyHealthSummary, error)
	GetSyncState(ctx context.Context, key string) (string, error)
	SetSyncState(ctx context.Context, key, value string) error
}

// CycleRecorder logs sync cycle outcomes. Optional. Satisfied by
// journal.Journal.
type CycleRecorder interface {
	RecordCycle(c journal.Cycle) error
}

// Options configures coordinator behavior.
type Options struct {
	AutoSync         bool
	SyncOnForeground bool
	SyncInterval     time.Duration
}

// Coordinator orchestrates sync cycles. At most one cycle is ever in
// flight: any trigger that fires while one is running is dropped, not
// queued. The next scheduled or foreground trigger catches up.
type Coordinator struct {
	hp      provider.HealthProvider
	agg     *metrics.Aggregator
	sink    Sink
	store   SummaryStore
	journal CycleRecorder
	log     *slog.Logger
	opts    Options
	now     func() time.Time

	busy atomic.Bool

	mu         sync.Mutex
	lastSyncAt time.Time
	streak     models.StreakState
}

// New creates a Coordinator. store and recorder may be nil.
func New(hp provider.HealthProvider, agg *metrics.Aggregator, sink Sink, store SummaryStore, recorder CycleRecorder, opts Options, log *slog.Logger) *Coordinator {
	if opts.SyncInterval <= 0 {
		opts.SyncInterval = DefaultSyncInterval
	}
	return &Coordinator{
		hp:      hp,
		agg:     agg,
		sink:    sink,
		store:   store,
		journal: recorder,
		log:     log,
		opts:    opts,
		now:     time.Now,
	}
}

// Run drives the coordinator until ctx is canceled: an optional initial
// sync, a recurring interval timer, and foreground-resume signals. A nil
// foreground channel degrades to interval-only scheduling.
func (c *Coordinator) Run(ctx context.Context, foreground <-chan struct{}) error {
	supported := c.hp.IsAvailable(ctx)
	perms, err := c.hp.GetPermissionStatus(ctx)
	if err != nil {
		c.log.Warn("permission status check failed", "error", err)
	}
	c.sink.SetSupport(supported, perms)

	if !supported {
		c.log.Info("health provider unavailable, sync disabled")
		return nil
	}

	c.restoreState(ctx)

	if c.opts.AutoSync && c.sink.TodaySummary() == nil {
		if err := c.Sync(ctx); err != nil {
			c.log.Warn("initial sync failed", "error", err)
		}
	}

	ticker := time.NewTicker(c.opts.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.syncIfStale(ctx, "interval")
		case _, ok := <-foreground:
			if !ok {
				foreground = nil
				continue
			}
			if c.opts.SyncOnForeground {
				c.syncIfStale(ctx, "foreground")
			}
		}
	}
}

// syncIfStale runs a sync when the published data is at least one interval
// old.
func (c *Coordinator) syncIfStale(ctx context.Context, trigger string) {
	c.mu.Lock()
	stale := c.now().Sub(c.lastSyncAt) >= c.opts.SyncInterval
	c.mu.Unlock()
	if !stale {
		return
	}
	if err := c.Sync(ctx); err != nil {
		c.log.Warn("sync failed", "trigger", trigger, "error", err)
	}
}

// Sync runs one full cycle: today plus the prior week, fetched
// concurrently, published all-or-nothing. Calling Sync while a cycle is in
// flight is a dropped no-op.
func (c *Coordinator) Sync(ctx context.Context) error {
	if !c.busy.CompareAndSwap(false, true) {
		c.log.Debug("sync already in flight, dropping trigger")
		return nil
	}
	defer c.busy.Store(false)

	perms, err := c.hp.GetPermissionStatus(ctx)
	if err != nil {
		c.sink.SetSyncError(err)
		return fmt.Errorf("checking permissions: %w", err)
	}
	if !perms.AllGranted() {
		// Denied permissions disable sync; they are not an error.
		c.log.Info("sync skipped: permissions not granted")
		return nil
	}

	c.sink.SetSyncing(true)
	defer c.sink.SetSyncing(false)

	started := c.now()
	summaries, err := c.fetchWindow(ctx, started)

	if c.journal != nil {
		cycle := journal.Cycle{
			StartedAt: started,
			Days:      weekWindowDays + 1,
			Duration:  c.now().Sub(started),
			OK:        err == nil,
		}
		if err != nil {
			cycle.Error = err.Error()
		}
		if jerr := c.journal.RecordCycle(cycle); jerr != nil {
			c.log.Warn("journal write failed", "error", jerr)
		}
	}

	if err != nil {
		// Any failed day discards the whole cycle: publishing a week
		// that mixes old and new days would be worse than staying stale.
		c.sink.SetSyncError(err)
		return err
	}

	c.persist(ctx, summaries)

	at := c.now()
	today, week := summaries[0], reversed(summaries[1:])
	c.sink.PublishSummaries(today, week, at)

	c.mu.Lock()
	c.lastSyncAt = at
	c.mu.Unlock()

	c.recordSyncedWorkouts(ctx, today)

	c.log.Info("sync complete",
		"days", len(summaries),
		"duration", c.now().Sub(started).String(),
	)
	return nil
}

// fetchWindow resolves summaries for today and the prior week. Days are
// fetched concurrently and order-independently; the first error cancels the
// rest and fails the cycle. Index 0 is today, the rest go backwards.
func (c *Coordinator) fetchWindow(ctx context.Context, now time.Time) ([]models.DailyHealthSummary, error) {
	summaries := make([]models.DailyHealthSummary, weekWindowDays+1)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i <= weekWindowDays; i++ {
		g.Go(func() error {
			date := now.AddDate(0, 0, -i)
			summary, err := c.fetchDay(gctx, date)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", models.DayKey(date), err)
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// fetchDay pulls every sample type for one calendar day and aggregates it.
func (c *Coordinator) fetchDay(ctx context.Context, date time.Time) (models.DailyHealthSummary, error) {
	start := models.StartOfDay(date)
	end := start.AddDate(0, 0, 1)

	var raw models.RawDaySamples
	var err error

	if raw.Steps, err = c.hp.GetSteps(ctx, start, end); err != nil {
		return models.DailyHealthSummary{}, fmt.Errorf("steps: %w", err)
	}
	if raw.Distance, err = c.hp.GetDistance(ctx, start, end); err != nil {
		return models.DailyHealthSummary{}, fmt.Errorf("distance: %w", err)
	}
	if raw.Calories, err = c.hp.GetCalories(ctx, start, end); err != nil {
		return models.DailyHealthSummary{}, fmt.Errorf("calories: %w", err)
	}
	if raw.HeartRate, err = c.hp.GetHeartRate(ctx, start, end); err != nil {
		return models.DailyHealthSummary{}, fmt.Errorf("heart rate: %w", err)
	}
	if raw.Workouts, err = c.hp.GetWorkouts(ctx, start, end); err != nil {
		return models.DailyHealthSummary{}, fmt.Errorf("workouts: %w", err)
	}

	if rhp, ok := c.hp.(provider.RestingHeartRateProvider); ok {
		if raw.RestingHR, err = rhp.GetRestingHeartRate(ctx, start, end); err != nil {
			return models.DailyHealthSummary{}, fmt.Errorf("resting heart rate: %w", err)
		}
	}

	return c.agg.Summarize(date, raw), nil
}

// persist writes the cycle's summaries and timestamp to durable storage.
// Storage failures are logged but do not fail the cycle: the published
// in-memory state is the source the UI reads.
func (c *Coordinator) persist(ctx context.Context, summaries []models.DailyHealthSummary) {
	if c.store == nil {
		return
	}
	if err := c.store.UpsertDailySummaries(ctx, summaries); err != nil {
		c.log.Warn("persisting summaries failed", "error", err)
	}
	if err := c.store.SetSyncState(ctx, stateLastSyncAt, c.now().Format(time.RFC3339)); err != nil {
		c.log.Warn("persisting sync state failed", "error", err)
	}
}

// reversed returns summaries oldest-first for the published week window
// (fetchWindow builds them newest-first).
func reversed(s []models.DailyHealthSummary) []models.DailyHealthSummary {
	out := make([]models.DailyHealthSummary, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
