// Package state holds the engine's published state: the values UI-facing
// collaborators read. The engine only ever writes here; it never reads its
// own previous output to decide the next sync, so losing this state on
// restart costs nothing but a recompute.
package state

import (
	"sync"
	"time"

	"github.com/claude/vitalsync/internal/models"
)

// Store is the mutex-guarded published state.
type Store struct {
	mu sync.RWMutex

	supported   bool
	permissions models.PermissionStatus

	todaySummary  *models.DailyHealthSummary
	weekSummaries []models.DailyHealthSummary
	syncing       bool
	syncError     string
	lastSyncAt    time.Time

	live     models.LiveSessionState
	tracking bool

	streak models.StreakState
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Snapshot is a consistent read of everything published.
type Snapshot struct {
	IsSupported bool                    `json:"is_supported"`
	Permissions models.PermissionStatus `json:"permissions"`

	TodaySummary  *models.DailyHealthSummary  `json:"today_summary,omitempty"`
	WeekSummaries []models.DailyHealthSummary `json:"week_summaries,omitempty"`
	IsSyncing     bool                        `json:"is_syncing"`
	Error         string                      `json:"error,omitempty"`
	LastSyncAt    *time.Time                  `json:"last_sync_at,omitempty"`

	Live       models.LiveSessionState `json:"live"`
	IsTracking bool                    `json:"is_tracking"`

	Streak models.StreakState `json:"streak"`
}

// Snapshot returns a copy of the current published state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		IsSupported: s.supported,
		Permissions: s.permissions,
		IsSyncing:   s.syncing,
		Error:       s.syncError,
		Live:        s.live,
		IsTracking:  s.tracking,
		Streak:      s.streak,
	}
	if s.todaySummary != nil {
		today := *s.todaySummary
		snap.TodaySummary = &today
	}
	if len(s.weekSummaries) > 0 {
		snap.WeekSummaries = make([]models.DailyHealthSummary, len(s.weekSummaries))
		copy(snap.WeekSummaries, s.weekSummaries)
	}
	if !s.lastSyncAt.IsZero() {
		at := s.lastSyncAt
		snap.LastSyncAt = &at
	}
	return snap
}

// SetSupport records provider availability and permission status.
func (s *Store) SetSupport(supported bool, perms models.PermissionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supported = supported
	s.permissions = perms
}

// SetSyncing flips the in-flight flag.
func (s *Store) SetSyncing(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncing = v
}

// PublishSummaries atomically replaces today's summary, the week window, and
// the last-sync timestamp, clearing any previous sync error. Readers never
// observe a half-updated week.
func (s *Store) PublishSummaries(today models.DailyHealthSummary, week []models.DailyHealthSummary, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := today
	s.todaySummary = &t
	s.weekSummaries = make([]models.DailyHealthSummary, len(week))
	copy(s.weekSummaries, week)
	s.lastSyncAt = at
	s.syncError = ""
}

// SetSyncError records a failed sync cycle without touching the published
// summaries: stale-but-consistent beats torn.
func (s *Store) SetSyncError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.syncError = err.Error()
	} else {
		s.syncError = ""
	}
}

// TodaySummary returns the published summary for today, or nil before the
// first successful sync.
func (s *Store) TodaySummary() *models.DailyHealthSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.todaySummary == nil {
		return nil
	}
	today := *s.todaySummary
	return &today
}

// WeekSummaries returns a copy of the published trailing week.
func (s *Store) WeekSummaries() []models.DailyHealthSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	week := make([]models.DailyHealthSummary, len(s.weekSummaries))
	copy(week, s.weekSummaries)
	return week
}

// LastSyncAt returns when the last successful sync published.
func (s *Store) LastSyncAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSyncAt
}

// SetLive publishes the live session values and tracking flag.
func (s *Store) SetLive(live models.LiveSessionState, tracking bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live = live
	s.tracking = tracking
}

// SetStreak publishes the workout streak state.
func (s *Store) SetStreak(streak models.StreakState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streak = streak
}
