package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/claude/vitalsync/internal/models"
	"github.com/claude/vitalsync/internal/state"
)

type fakeSync struct {
	syncCalls atomic.Int32
	load      models.TrainingLoad
	streak    models.StreakState
}

func (f *fakeSync) Sync(ctx context.Context) error {
	f.syncCalls.Add(1)
	return nil
}

func (f *fakeSync) TrainingLoad(ctx context.Context, date time.Time) models.TrainingLoad {
	out := f.load
	out.Date = models.DayKey(date)
	return out
}

func (f *fakeSync) Streak() models.StreakState { return f.streak }

func (f *fakeSync) RecordWorkout(ctx context.Context, completedAt time.Time) models.StreakState {
	f.streak.Current++
	if f.streak.Current > f.streak.Longest {
		f.streak.Longest = f.streak.Current
	}
	return f.streak
}

type fakeTracker struct {
	tracking bool
	live     models.LiveSessionState
	startErr error
}

func (f *fakeTracker) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.tracking = true
	return nil
}

func (f *fakeTracker) Stop() { f.tracking = false }

func (f *fakeTracker) ResetBaseline(ctx context.Context) error {
	f.live = models.LiveSessionState{}
	return nil
}

func (f *fakeTracker) State() (models.LiveSessionState, bool) { return f.live, f.tracking }

func newTestServer(t *testing.T, st *state.Store, sync *fakeSync, tracker *fakeTracker) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(st, sync, tracker, nil, "test-key", log)
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-API-Key", "test-key")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestTodaySummaryBeforeFirstSync verifies 404 before anything is published.
func TestTodaySummaryBeforeFirstSync(t *testing.T) {
	s := newTestServer(t, state.New(), &fakeSync{}, &fakeTracker{})

	rec := doRequest(s, http.MethodGet, "/api/v1/summaries/today", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestTodaySummaryPublished verifies the published summary round-trips.
func TestTodaySummaryPublished(t *testing.T) {
	st := state.New()
	steps := 7000
	st.PublishSummaries(
		models.DailyHealthSummary{Date: "2025-06-01", Steps: &steps},
		nil, time.Now(),
	)
	s := newTestServer(t, st, &fakeSync{}, &fakeTracker{})

	rec := doRequest(s, http.MethodGet, "/api/v1/summaries/today", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got models.DailyHealthSummary
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Date != "2025-06-01" || got.Steps == nil || *got.Steps != 7000 {
		t.Errorf("summary = %+v, want 2025-06-01 with 7000 steps", got)
	}
}

// TestRoutesRequireAPIKey verifies the whole API tree is behind auth.
func TestRoutesRequireAPIKey(t *testing.T) {
	s := newTestServer(t, state.New(), &fakeSync{}, &fakeTracker{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestTriggerSync verifies the manual sync endpoint returns 202 and invokes
// the coordinator.
func TestTriggerSync(t *testing.T) {
	fs := &fakeSync{}
	s := newTestServer(t, state.New(), fs, &fakeTracker{})

	rec := doRequest(s, http.MethodPost, "/api/v1/sync", "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	deadline := time.Now().Add(2 * time.Second)
	for fs.syncCalls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("sync never invoked")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// TestTrainingLoadBadDate verifies malformed dates are rejected.
func TestTrainingLoadBadDate(t *testing.T) {
	s := newTestServer(t, state.New(), &fakeSync{}, &fakeTracker{})

	rec := doRequest(s, http.MethodGet, "/api/v1/training-load?date=junk", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestTrainingLoadDate verifies the date param is passed through.
func TestTrainingLoadDate(t *testing.T) {
	fs := &fakeSync{load: models.TrainingLoad{Level: models.LoadModerate}}
	s := newTestServer(t, state.New(), fs, &fakeTracker{})

	rec := doRequest(s, http.MethodGet, "/api/v1/training-load?date=2025-06-01", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got models.TrainingLoad
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Date != "2025-06-01" || got.Level != models.LoadModerate {
		t.Errorf("load = %+v", got)
	}
}

// TestLiveLifecycle drives start, state, and stop through the API.
func TestLiveLifecycle(t *testing.T) {
	ft := &fakeTracker{live: models.LiveSessionState{Steps: 250, DistanceMeters: 200}}
	s := newTestServer(t, state.New(), &fakeSync{}, ft)

	if rec := doRequest(s, http.MethodPost, "/api/v1/live/start", ""); rec.Code != http.StatusOK {
		t.Fatalf("start status = %d, want 200", rec.Code)
	}

	rec := doRequest(s, http.MethodGet, "/api/v1/live", "")
	var got struct {
		IsTracking bool                    `json:"is_tracking"`
		Session    models.LiveSessionState `json:"session"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.IsTracking || got.Session.Steps != 250 {
		t.Errorf("live = %+v, want tracking with 250 steps", got)
	}

	if rec := doRequest(s, http.MethodPost, "/api/v1/live/stop", ""); rec.Code != http.StatusOK {
		t.Fatalf("stop status = %d, want 200", rec.Code)
	}
	if ft.tracking {
		t.Error("tracker still running after stop")
	}
}

// TestWorkoutComplete verifies the completion endpoint returns the updated
// streak.
func TestWorkoutComplete(t *testing.T) {
	s := newTestServer(t, state.New(), &fakeSync{}, &fakeTracker{})

	rec := doRequest(s, http.MethodPost, "/api/v1/workouts/complete",
		`{"completed_at":"2025-06-01T18:00:00Z"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got models.StreakState
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Current != 1 {
		t.Errorf("streak = %+v, want current=1", got)
	}
}

// TestSummaryHistoryWithoutStore verifies the history endpoint degrades
// cleanly with no database.
func TestSummaryHistoryWithoutStore(t *testing.T) {
	s := newTestServer(t, state.New(), &fakeSync{}, &fakeTracker{})

	rec := doRequest(s, http.MethodGet, "/api/v1/summaries", "")
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", rec.Code)
	}
}
