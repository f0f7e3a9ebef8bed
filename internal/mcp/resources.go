package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Resource definitions ---

var resTodaySummary = mcp.NewResource(
	"vitalsync://today_summary",
	"Today's Summary",
	mcp.WithResourceDescription("Today's aggregated health summary plus the current workout streak"),
	mcp.WithMIMEType("application/json"),
)

var resTrainingStatus = mcp.NewResource(
	"vitalsync://training_status",
	"Training Status",
	mcp.WithResourceDescription("Acute vs chronic training load as of today, with the trailing week of summaries"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) todaySummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	summary, err := h.ds.TodaySummary(ctx)
	if err != nil {
		return nil, err
	}

	streak, err := h.ds.Streak(ctx)
	if err != nil {
		h.log.Warn("today_summary: streak failed", "error", err)
	}

	data, err := json.Marshal(map[string]any{
		"summary": summary,
		"streak":  streak,
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) trainingStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	load, err := h.ds.TrainingLoad(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	week, err := h.ds.WeekSummaries(ctx)
	if err != nil {
		h.log.Warn("training_status: week summaries failed", "error", err)
	}

	data, err := json.Marshal(map[string]any{
		"training_load": load,
		"week":          week,
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
