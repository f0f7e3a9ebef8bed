// vitalsync-mcp bridges a local MCP client (stdio) to a remote vitalsync
// server's REST API. Useful when the assistant runs on a laptop and the
// engine runs elsewhere on the tailnet.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/claude/vitalsync/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	url := flag.String("url", "", "base URL of the vitalsync server (e.g. http://vitalsync:8080)")
	apiKey := flag.String("api-key", os.Getenv("VITALSYNC_API_KEY"), "API key (defaults to VITALSYNC_API_KEY)")
	flag.Parse()

	// Logs go to stderr: stdout carries the MCP stream.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *url == "" {
		log.Error("missing required -url flag")
		os.Exit(1)
	}
	if *apiKey == "" {
		log.Error("missing API key: set -api-key or VITALSYNC_API_KEY")
		os.Exit(1)
	}

	ds := mcp.NewHTTPClient(*url, *apiKey)
	srv := mcp.New(ds, Version, log)

	if err := mcpserver.ServeStdio(srv); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
