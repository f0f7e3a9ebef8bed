// Package server exposes the engine's published state and controls over
// HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/vitalsync/internal/models"
	"github.com/claude/vitalsync/internal/state"
	"github.com/go-chi/chi/v5"
)

// SyncService is the coordinator surface the handlers call.
type SyncService interface {
	Sync(ctx context.Context) error
	TrainingLoad(ctx context.Context, date time.Time) models.TrainingLoad
	Streak() models.StreakState
	RecordWorkout(ctx context.Context, completedAt time.Time) models.StreakState
}

// LiveTracker is the live session surface the handlers call.
type LiveTracker interface {
	Start(ctx context.Context) error
	Stop()
	ResetBaseline(ctx context.Context) error
	State() (models.LiveSessionState, bool)
}

// SummaryReader serves historical summaries out of durable storage.
type SummaryReader interface {
	GetDailySummaries(ctx context.Context, from, to string) ([]models.DailyHealthSummary, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	state   *state.Store
	sync    SyncService
	tracker LiveTracker
	history SummaryReader
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured. history may be nil
// when the deployment runs without a database.
func New(st *state.Store, sync SyncService, tracker LiveTracker, history SummaryReader, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		state:   st,
		sync:    sync,
		tracker: tracker,
		history: history,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Get("/status", s.handleStatus)
		r.Get("/summaries/today", s.handleTodaySummary)
		r.Get("/summaries/week", s.handleWeekSummaries)
		r.Get("/summaries", s.handleSummaryHistory)
		r.Get("/training-load", s.handleTrainingLoad)
		r.Get("/streak", s.handleStreak)
		r.Get("/live", s.handleLiveState)

		r.Post("/sync", s.handleTriggerSync)
		r.Post("/live/start", s.handleLiveStart)
		r.Post("/live/stop", s.handleLiveStop)
		r.Post("/live/reset", s.handleLiveReset)
		r.Post("/workouts/complete", s.handleWorkoutComplete)
	})
}
