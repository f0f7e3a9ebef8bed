package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/claude/vitalsync/internal/models"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.state.Snapshot()
	// The snapshot carries the full summaries; status is the light view.
	writeJSON(w, http.StatusOK, map[string]any{
		"is_supported": snap.IsSupported,
		"permissions":  snap.Permissions,
		"is_syncing":   snap.IsSyncing,
		"is_tracking":  snap.IsTracking,
		"last_sync_at": snap.LastSyncAt,
		"error":        snap.Error,
	})
}

func (s *Server) handleTodaySummary(w http.ResponseWriter, r *http.Request) {
	today := s.state.TodaySummary()
	if today == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no summary published yet"})
		return
	}
	writeJSON(w, http.StatusOK, today)
}

func (s *Server) handleWeekSummaries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.WeekSummaries())
}

func (s *Server) handleSummaryHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "no summary storage configured"})
		return
	}

	from, to, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	summaries, err := s.history.GetDailySummaries(r.Context(), from, to)
	if err != nil {
		s.log.Error("summary history query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleTrainingLoad(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse(models.DateLayout, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}
	writeJSON(w, http.StatusOK, s.sync.TrainingLoad(r.Context(), date))
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sync.Streak())
}

func (s *Server) handleLiveState(w http.ResponseWriter, r *http.Request) {
	live, tracking := s.tracker.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"is_tracking": tracking,
		"session":     live,
	})
}

// handleTriggerSync kicks off a sync cycle in the background. A cycle
// already in flight makes this a no-op; either way the client gets 202 and
// watches /status for the outcome.
func (s *Server) handleTriggerSync(w http.ResponseWriter, r *http.Request) {
	// Detached from the request context: the cycle should finish even if
	// the client disconnects.
	go func() {
		if err := s.sync.Sync(context.Background()); err != nil {
			s.log.Warn("manual sync failed", "error", err)
		}
	}()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sync started"})
}

func (s *Server) handleLiveStart(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Start(r.Context()); err != nil {
		s.log.Error("live session start failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "tracking"})
}

func (s *Server) handleLiveStop(w http.ResponseWriter, r *http.Request) {
	s.tracker.Stop()
	live, _ := s.tracker.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "stopped",
		"session": live,
	})
}

func (s *Server) handleLiveReset(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.ResetBaseline(r.Context()); err != nil {
		s.log.Error("live session reset failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleWorkoutComplete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CompletedAt *time.Time `json:"completed_at"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}
	completedAt := time.Now()
	if body.CompletedAt != nil {
		completedAt = *body.CompletedAt
	}
	writeJSON(w, http.StatusOK, s.sync.RecordWorkout(r.Context(), completedAt))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseDateRange reads start/end date-only query params, defaulting to the
// trailing four weeks.
func parseDateRange(r *http.Request) (from, to string, err error) {
	now := time.Now()
	from = models.DayKey(now.AddDate(0, 0, -27))
	to = models.DayKey(now)

	if v := r.URL.Query().Get("start"); v != "" {
		if _, err = time.Parse(models.DateLayout, v); err != nil {
			return "", "", err
		}
		from = v
	}
	if v := r.URL.Query().Get("end"); v != "" {
		if _, err = time.Parse(models.DateLayout, v); err != nil {
			return "", "", err
		}
		to = v
	}
	return from, to, nil
}
