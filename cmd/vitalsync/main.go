package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/vitalsync/internal/config"
	"github.com/claude/vitalsync/internal/journal"
	"github.com/claude/vitalsync/internal/mcp"
	"github.com/claude/vitalsync/internal/metrics"
	"github.com/claude/vitalsync/internal/provider/hae"
	"github.com/claude/vitalsync/internal/server"
	"github.com/claude/vitalsync/internal/service"
	"github.com/claude/vitalsync/internal/state"
	"github.com/claude/vitalsync/internal/storage"
	"github.com/claude/vitalsync/internal/tracker"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("VitalSync starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	jnl, err := journal.Open(cfg.Sync.JournalDir)
	if err != nil {
		log.Error("failed to open sync journal", "error", err)
		os.Exit(1)
	}
	defer jnl.Close()

	provider := hae.NewClient(cfg.Provider.Host, cfg.Provider.Port, cfg.Provider.Timeout(), log)
	published := state.New()
	agg := metrics.NewAggregator(cfg.Athlete.MaxHeartRate, cfg.Athlete.BodyWeightKg)

	coord := service.New(provider, agg, published, db, jnl, service.Options{
		AutoSync:         cfg.Sync.AutoSync,
		SyncOnForeground: cfg.Sync.SyncOnForeground,
		SyncInterval:     cfg.Sync.Interval(),
	}, log)

	// SIGHUP stands in for app foreground: it nudges the coordinator to
	// resync if the published data has gone stale.
	foreground := make(chan struct{}, 1)
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			select {
			case foreground <- struct{}{}:
			default:
			}
		}
	}()

	go func() {
		if err := coord.Run(ctx, foreground); err != nil && ctx.Err() == nil {
			log.Error("coordinator stopped", "error", err)
		}
	}()

	live := tracker.New(provider, published, cfg.Sync.UpdateInterval(), log)
	defer live.Stop()

	srv := server.New(published, coord, live, db, cfg.Auth.APIKey, log)

	mcpSrv := mcp.New(mcp.NewLocalSource(published, coord, live, db), Version, log)
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv))
	mux.Handle("/", srv)

	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
			AuthKey:  cfg.Tailscale.AuthKey,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: mux}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
