package mcp

import (
	"context"
	"time"

	"github.com/claude/vitalsync/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// parseFlexDate accepts ISO 8601 timestamps or bare dates.
func parseFlexDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(models.DateLayout, s)
}

// defaultDateRange returns from/to date keys, defaulting to the trailing
// four weeks.
func defaultDateRange(startStr, endStr string) (from, to string, err error) {
	now := time.Now()
	from = models.DayKey(now.AddDate(0, 0, -27))
	to = models.DayKey(now)

	if startStr != "" {
		t, perr := parseFlexDate(startStr)
		if perr != nil {
			return "", "", perr
		}
		from = models.DayKey(t)
	}
	if endStr != "" {
		t, perr := parseFlexDate(endStr)
		if perr != nil {
			return "", "", perr
		}
		to = models.DayKey(t)
	}
	return from, to, nil
}

// --- Tool definitions ---

var toolGetDailySummary = mcp.NewTool("get_daily_summary",
	mcp.WithDescription("Today's aggregated health summary: steps, distance, calories, heart rate stats, heart-rate zone minutes, workouts, and active minutes."),
)

var toolGetWeekSummaries = mcp.NewTool("get_week_summaries",
	mcp.WithDescription("Daily summaries for the trailing seven days, oldest first."),
)

var toolGetSummaryHistory = mcp.NewTool("get_summary_history",
	mcp.WithDescription("Daily summaries over an arbitrary date range from durable storage."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 28 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to today.")),
)

var toolGetTrainingLoad = mcp.NewTool("get_training_load",
	mcp.WithDescription("Acute (7-day) vs chronic (28-day) training load with the acute:chronic ratio and a qualitative level (low/moderate/high/very_high)."),
	mcp.WithString("date", mcp.Description("Date to evaluate (YYYY-MM-DD). Defaults to today.")),
)

var toolGetStreak = mcp.NewTool("get_streak",
	mcp.WithDescription("Current and longest workout streak in consecutive calendar days, with the last workout date."),
)

var toolGetLiveSession = mcp.NewTool("get_live_session",
	mcp.WithDescription("Live walk/run session state: steps and distance since the session started, cadence, and pace."),
)

var toolTriggerSync = mcp.NewTool("trigger_sync",
	mcp.WithDescription("Start a sync cycle against the health provider. No-op if a cycle is already running."),
)

// --- Tool handlers ---

func (h *handlers) getDailySummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := h.ds.TodaySummary(ctx)
	if err != nil {
		h.log.Error("mcp get_daily_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if summary == nil {
		return mcp.NewToolResultText("no summary published yet; run trigger_sync first"), nil
	}
	return jsonResult(summary)
}

func (h *handlers) getWeekSummaries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries, err := h.ds.WeekSummaries(ctx)
	if err != nil {
		h.log.Error("mcp get_week_summaries", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(summaries)
}

func (h *handlers) getSummaryHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, to, err := defaultDateRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	summaries, err := h.ds.SummaryHistory(ctx, from, to)
	if err != nil {
		h.log.Error("mcp get_summary_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(summaries)
}

func (h *handlers) getTrainingLoad(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := time.Now()
	if v := req.GetString("date", ""); v != "" {
		parsed, err := parseFlexDate(v)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
		date = parsed
	}

	load, err := h.ds.TrainingLoad(ctx, date)
	if err != nil {
		h.log.Error("mcp get_training_load", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(load)
}

func (h *handlers) getStreak(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	streak, err := h.ds.Streak(ctx)
	if err != nil {
		h.log.Error("mcp get_streak", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(streak)
}

func (h *handlers) getLiveSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	live, tracking, err := h.ds.LiveSession(ctx)
	if err != nil {
		h.log.Error("mcp get_live_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(map[string]any{
		"is_tracking": tracking,
		"session":     live,
	})
}

func (h *handlers) triggerSync(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.ds.TriggerSync(ctx); err != nil {
		h.log.Error("mcp trigger_sync", "error", err)
		return mcp.NewToolResultError("sync failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText("sync completed"), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
