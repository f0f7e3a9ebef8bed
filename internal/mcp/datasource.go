package mcp

import (
	"context"
	"time"

	"github.com/claude/vitalsync/internal/models"
	"github.com/claude/vitalsync/internal/server"
	"github.com/claude/vitalsync/internal/state"
)

// DataSource abstracts the engine for MCP tools. LocalSource (in-process)
// and HTTPClient (remote via REST API) both satisfy this interface.
type DataSource interface {
	TodaySummary(ctx context.Context) (*models.DailyHealthSummary, error)
	WeekSummaries(ctx context.Context) ([]models.DailyHealthSummary, error)
	SummaryHistory(ctx context.Context, from, to string) ([]models.DailyHealthSummary, error)
	TrainingLoad(ctx context.Context, date time.Time) (models.TrainingLoad, error)
	Streak(ctx context.Context) (models.StreakState, error)
	LiveSession(ctx context.Context) (models.LiveSessionState, bool, error)
	TriggerSync(ctx context.Context) error
}

// LocalSource serves MCP tools straight from the in-process engine.
type LocalSource struct {
	state   *state.Store
	sync    server.SyncService
	tracker server.LiveTracker
	history server.SummaryReader
}

var _ DataSource = (*LocalSource)(nil)

// NewLocalSource wires the engine's collaborators into a DataSource.
// history may be nil when the deployment runs without a database.
func NewLocalSource(st *state.Store, sync server.SyncService, tracker server.LiveTracker, history server.SummaryReader) *LocalSource {
	return &LocalSource{state: st, sync: sync, tracker: tracker, history: history}
}

func (l *LocalSource) TodaySummary(ctx context.Context) (*models.DailyHealthSummary, error) {
	return l.state.TodaySummary(), nil
}

func (l *LocalSource) WeekSummaries(ctx context.Context) ([]models.DailyHealthSummary, error) {
	return l.state.WeekSummaries(), nil
}

func (l *LocalSource) SummaryHistory(ctx context.Context, from, to string) ([]models.DailyHealthSummary, error) {
	if l.history == nil {
		return l.state.WeekSummaries(), nil
	}
	return l.history.GetDailySummaries(ctx, from, to)
}

func (l *LocalSource) TrainingLoad(ctx context.Context, date time.Time) (models.TrainingLoad, error) {
	return l.sync.TrainingLoad(ctx, date), nil
}

func (l *LocalSource) Streak(ctx context.Context) (models.StreakState, error) {
	return l.sync.Streak(), nil
}

func (l *LocalSource) LiveSession(ctx context.Context) (models.LiveSessionState, bool, error) {
	live, tracking := l.tracker.State()
	return live, tracking, nil
}

func (l *LocalSource) TriggerSync(ctx context.Context) error {
	return l.sync.Sync(ctx)
}
