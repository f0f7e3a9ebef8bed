package state

import (
	"errors"
	"testing"
	"time"

	"github.com/claude/vitalsync/internal/models"
)

// TestPublishSummariesAtomic verifies a publish replaces today, the week,
// and the timestamp together, and clears a prior error.
func TestPublishSummariesAtomic(t *testing.T) {
	s := New()
	s.SetSyncError(errors.New("fetch failed"))

	today := models.DailyHealthSummary{Date: "2026-03-10"}
	week := []models.DailyHealthSummary{
		{Date: "2026-03-04"}, {Date: "2026-03-05"}, {Date: "2026-03-06"},
	}
	at := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)

	s.PublishSummaries(today, week, at)

	snap := s.Snapshot()
	if snap.TodaySummary == nil || snap.TodaySummary.Date != "2026-03-10" {
		t.Errorf("today = %+v, want 2026-03-10", snap.TodaySummary)
	}
	if len(snap.WeekSummaries) != 3 {
		t.Errorf("week len = %d, want 3", len(snap.WeekSummaries))
	}
	if snap.LastSyncAt == nil || !snap.LastSyncAt.Equal(at) {
		t.Errorf("lastSyncAt = %v, want %v", snap.LastSyncAt, at)
	}
	if snap.Error != "" {
		t.Errorf("error = %q, want cleared", snap.Error)
	}
}

// TestSetSyncErrorKeepsSummaries verifies a failed cycle leaves the last
// published summaries in place.
func TestSetSyncErrorKeepsSummaries(t *testing.T) {
	s := New()
	s.PublishSummaries(models.DailyHealthSummary{Date: "2026-03-10"}, nil, time.Now())

	s.SetSyncError(errors.New("provider unreachable"))

	snap := s.Snapshot()
	if snap.Error != "provider unreachable" {
		t.Errorf("error = %q, want provider unreachable", snap.Error)
	}
	if snap.TodaySummary == nil {
		t.Error("today summary dropped on error, want retained")
	}
}

// TestSnapshotCopies verifies mutating a snapshot does not leak back into
// the store.
func TestSnapshotCopies(t *testing.T) {
	s := New()
	steps := 100
	s.PublishSummaries(models.DailyHealthSummary{Date: "2026-03-10", Steps: &steps},
		[]models.DailyHealthSummary{{Date: "2026-03-09"}}, time.Now())

	snap := s.Snapshot()
	snap.TodaySummary.Date = "mutated"
	snap.WeekSummaries[0].Date = "mutated"

	if got := s.TodaySummary(); got.Date != "2026-03-10" {
		t.Errorf("store today mutated through snapshot: %q", got.Date)
	}
	if got := s.WeekSummaries(); got[0].Date != "2026-03-09" {
		t.Errorf("store week mutated through snapshot: %q", got[0].Date)
	}
}

// TestLiveAndStreak verifies the live-tracking and streak setters publish.
func TestLiveAndStreak(t *testing.T) {
	s := New()

	s.SetLive(models.LiveSessionState{Steps: 420, DistanceMeters: 350}, true)
	s.SetStreak(models.StreakState{Current: 4, Longest: 11})

	snap := s.Snapshot()
	if !snap.IsTracking || snap.Live.Steps != 420 {
		t.Errorf("live = %+v tracking = %v, want 420 steps tracking", snap.Live, snap.IsTracking)
	}
	if snap.Streak.Current != 4 || snap.Streak.Longest != 11 {
		t.Errorf("streak = %+v, want current 4 longest 11", snap.Streak)
	}
}
