package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/czaloom/mental-health-iot-example/internal/alerts"
	"github.com/czaloom/mental-health-iot-example/internal/api"
	"github.com/czaloom/mental-health-iot-example/internal/auth"
	"github.com/czaloom/mental-health-iot-example/internal/config"
	"github.com/czaloom/mental-health-iot-example/internal/store"
	"github.com/czaloom/mental-health-iot-example/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("stresswatch-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"driver", cfg.Database.Driver,
		"threshold", cfg.Scoring.HighStressThreshold,
		"auth_mode", cfg.Server.Auth.Mode,
		"alert_rules", len(cfg.Server.Alerts.Rules),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := store.New(cfg.Database, cfg.Scoring.HighStressThreshold)
	if err != nil {
		slog.Error("failed to build store", "err", err)
		os.Exit(1)
	}
	if err := st.Open(); err != nil {
		slog.Error("failed to open store", "err", err)
		os.Exit(1)
	}
	defer st.Close() //nolint:errcheck

	// Rule engine — evaluates alert rules on every record stored via ingest.
	engine := alerts.NewEngine(cfg.Server.Alerts)
	service := alerts.NewService(st, cfg.Server.Alerts.DefaultLimit)

	// Watch config file for hot-reload. Only alert rules take effect without
	// a restart; port, database, and auth changes need a new process.
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			engine.SetRules(updated.Server.Alerts.Rules)
			slog.Info("config hot-reloaded", "alert_rules", len(updated.Server.Alerts.Rules))
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	// WebSocket hub — broadcasts the recent alert feed to dashboard clients.
	hub := ws.New(service, cfg.Server.BroadcastInterval)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/api/", api.New(st, service, engine, cfg.Scoring.HighStressThreshold))
	mux.Handle("/ws/alerts", hub)
	mux.Handle("/metrics", promhttp.Handler())

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: auth.Middleware(cfg.Server.Auth, mux),
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("stresswatch-server shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
