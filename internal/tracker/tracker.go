// Package tracker maintains live in-session activity state while a workout
// is in progress. It snapshots the day's cumulative steps/distance as a
// baseline at session start and polls the provider on a fixed interval,
// publishing session-relative deltas.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/vitalsync/internal/models"
	"github.com/claude/vitalsync/internal/provider"
)

// DefaultUpdateInterval is the live poll cadence.
const DefaultUpdateInterval = 3 * time.Second

// Pace is reported as 0 below this session distance to avoid division
// blow-up on sensor noise.
const minPaceDistanceMeters = 10

// Publisher receives live session updates. Satisfied by state.Store.
type Publisher interface {
	SetLive(live models.LiveSessionState, tracking bool)
}

// baseline is the cumulative provider reading captured at session start.
type baseline struct {
	steps    float64
	distance float64
	at       time.Time
}

// Tracker is the live session state machine: Idle -> Tracking -> Idle.
// At most one poll timer is live at a time; Stop cancels it synchronously
// so a stale baseline can never leak into the next session.
type Tracker struct {
	hp       provider.HealthProvider
	publish  Publisher
	log      *slog.Logger
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	tracking bool
	base     baseline
	session  models.LiveSessionState
	stop     chan struct{}
	done     chan struct{}
}

// New creates an idle Tracker. publish may be nil when no collaborator
// needs push updates; State remains readable either way.
func New(hp provider.HealthProvider, publish Publisher, interval time.Duration, log *slog.Logger) *Tracker {
	if interval <= 0 {
		interval = DefaultUpdateInterval
	}
	return &Tracker{
		hp:       hp,
		publish:  publish,
		log:      log,
		interval: interval,
		now:      time.Now,
	}
}

// Start captures a baseline, zeroes the session state, performs one
// immediate fetch, and begins the interval poll. Starting while already
// tracking is a no-op.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.tracking {
		t.mu.Unlock()
		return nil
	}

	base, err := t.fetchCumulative(ctx)
	if err != nil {
		t.mu.Unlock()
		return fmt.Errorf("capturing baseline: %w", err)
	}

	t.base = base
	t.session = models.LiveSessionState{}
	t.tracking = true
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	stop, done := t.stop, t.done
	t.mu.Unlock()

	t.publishState()

	// First reading right away so the session starts live, not after one
	// full interval.
	t.poll(ctx)

	go t.loop(ctx, stop, done)
	return nil
}

// Stop cancels the poll timer and returns only once no further poll can
// fire. The last session values stay visible until the next Start.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if !t.tracking {
		t.mu.Unlock()
		return
	}
	t.tracking = false
	close(t.stop)
	done := t.done
	t.mu.Unlock()

	<-done
	t.publishState()
}

// ResetBaseline re-captures the baseline mid-session without stopping the
// poll, zeroing the visible session state.
func (t *Tracker) ResetBaseline(ctx context.Context) error {
	t.mu.Lock()
	if !t.tracking {
		t.mu.Unlock()
		return fmt.Errorf("not tracking")
	}
	base, err := t.fetchCumulative(ctx)
	if err != nil {
		t.mu.Unlock()
		return fmt.Errorf("re-capturing baseline: %w", err)
	}
	t.base = base
	t.session = models.LiveSessionState{}
	t.mu.Unlock()

	t.publishState()
	return nil
}

// State returns the current session values and whether a session is active.
func (t *Tracker) State() (models.LiveSessionState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session, t.tracking
}

func (t *Tracker) loop(ctx context.Context, stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.poll(ctx)
		}
	}
}

// poll fetches today's cumulative values and recomputes the session deltas.
// A fetch failure is logged and skipped: the previous values stay visible
// until the next successful tick.
func (t *Tracker) poll(ctx context.Context) {
	cur, err := t.fetchCumulative(ctx)
	if err != nil {
		t.log.Warn("live poll failed", "error", err)
		return
	}

	t.mu.Lock()
	if !t.tracking {
		t.mu.Unlock()
		return
	}

	// Clamp at zero: a provider count reset mid-session must not produce
	// negative deltas.
	steps := cur.steps - t.base.steps
	if steps < 0 {
		steps = 0
	}
	distance := cur.distance - t.base.distance
	if distance < 0 {
		distance = 0
	}

	elapsedMin := t.now().Sub(t.base.at).Minutes()

	var stepsPerMin float64
	if elapsedMin > 0 {
		stepsPerMin = steps / elapsedMin
	}

	var pace float64
	if distance >= minPaceDistanceMeters {
		pace = elapsedMin / (distance / 1000)
	}

	t.session = models.LiveSessionState{
		Steps:          int(steps),
		DistanceMeters: distance,
		StepsPerMinute: stepsPerMin,
		PaceMinPerKm:   pace,
	}
	t.mu.Unlock()

	t.publishState()
}

// publishState pushes the current session snapshot to the publisher.
func (t *Tracker) publishState() {
	if t.publish == nil {
		return
	}
	t.mu.Lock()
	session, tracking := t.session, t.tracking
	t.mu.Unlock()
	t.publish.SetLive(session, tracking)
}

// fetchCumulative reads today's cumulative steps and distance.
func (t *Tracker) fetchCumulative(ctx context.Context) (baseline, error) {
	now := t.now()
	start := models.StartOfDay(now)

	steps, err := t.hp.GetSteps(ctx, start, now)
	if err != nil {
		return baseline{}, fmt.Errorf("fetching steps: %w", err)
	}
	distance, err := t.hp.GetDistance(ctx, start, now)
	if err != nil {
		return baseline{}, fmt.Errorf("fetching distance: %w", err)
	}

	b := baseline{at: now}
	for _, r := range steps {
		b.steps += r.Count
	}
	for _, r := range distance {
		b.distance += r.Meters
	}
	return b, nil
}
