// Package mcp exposes the engine's summaries and derived metrics to AI
// assistants over the Model Context Protocol.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("VitalSync", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("VitalSync health telemetry engine. Query daily activity summaries, heart-rate zones, training load, workout streaks, and live session state."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetDailySummary, Handler: h.getDailySummary},
		server.ServerTool{Tool: toolGetWeekSummaries, Handler: h.getWeekSummaries},
		server.ServerTool{Tool: toolGetSummaryHistory, Handler: h.getSummaryHistory},
		server.ServerTool{Tool: toolGetTrainingLoad, Handler: h.getTrainingLoad},
		server.ServerTool{Tool: toolGetStreak, Handler: h.getStreak},
		server.ServerTool{Tool: toolGetLiveSession, Handler: h.getLiveSession},
		server.ServerTool{Tool: toolTriggerSync, Handler: h.triggerSync},
	)

	s.AddResources(
		server.ServerResource{Resource: resTodaySummary, Handler: h.todaySummary},
		server.ServerResource{Resource: resTrainingStatus, Handler: h.trainingStatus},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}
