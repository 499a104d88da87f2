package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/czaloom/mental-health-iot-example/internal/alerts"
	"github.com/czaloom/mental-health-iot-example/internal/config"
	"github.com/czaloom/mental-health-iot-example/internal/csvsource"
	"github.com/czaloom/mental-health-iot-example/internal/ingest"
	"github.com/czaloom/mental-health-iot-example/internal/store"
)

// settleDelay gives file writers a moment to finish before a dropped CSV is
// read. Uploads via scp/rsync emit a Create event well before the last byte.
const settleDelay = 500 * time.Millisecond

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	file := flag.String("file", "", "ingest this CSV file once and exit (overrides config csv_path)")
	watch := flag.String("watch-dir", "", "watch this directory and ingest every CSV dropped into it (overrides config watch_dir)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("stresswatch-agent starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	csvPath := cfg.Agent.CSVPath
	if *file != "" {
		csvPath = *file
	}
	watchDir := cfg.Agent.WatchDir
	if *watch != "" {
		watchDir = *watch
	}
	if csvPath == "" && watchDir == "" {
		slog.Error("nothing to do: set agent.csv_path or agent.watch_dir, or pass -file / -watch-dir")
		os.Exit(1)
	}

	slog.Info("config loaded",
		"driver", cfg.Database.Driver,
		"threshold", cfg.Scoring.HighStressThreshold,
		"csv_path", csvPath,
		"watch_dir", watchDir,
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

	// Rule engine fires webhooks for every stored record, same as the server.
	engine := alerts.NewEngine(cfg.Server.Alerts)
	pipe := ingest.New(st, cfg.Scoring.HighStressThreshold)
	pipe.Notify = engine.Evaluate

	runFile := func(path string) {
		src, err := csvsource.Open(path)
		if err != nil {
			slog.Error("cannot open CSV", "path", path, "err", err)
			return
		}
		defer src.Close() //nolint:errcheck

		sum, err := pipe.Run(ctx, src)
		if err != nil {
			slog.Error("ingest failed", "path", path, "err", err,
				"scanned", sum.TotalSeen, "stored", sum.HighStressStored)
			return
		}
		slog.Info("ingest complete", "path", path,
			"scanned", sum.TotalSeen,
			"high_stress", sum.HighStressStored,
			"parse_failures", sum.ParseFailures,
		)
	}

	if csvPath != "" {
		runFile(csvPath)
		if watchDir == "" {
			return
		}
	}

	// Drop-directory mode: ingest every CSV that lands in watchDir.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("failed to create directory watcher", "err", err)
		os.Exit(1)
	}
	defer watcher.Close() //nolint:errcheck

	if err := watcher.Add(watchDir); err != nil {
		slog.Error("failed to watch directory", "dir", watchDir, "err", err)
		os.Exit(1)
	}
	slog.Info("watching for CSV drops", "dir", watchDir)

	seen := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			slog.Info("stresswatch-agent shutting down")
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".csv") {
				continue
			}
			// Create+Write pairs for the same upload collapse to one run.
			if t, ok := seen[ev.Name]; ok && time.Since(t) < settleDelay {
				continue
			}
			seen[ev.Name] = time.Now()
			time.Sleep(settleDelay)
			runFile(ev.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("directory watcher error", "err", err)
		}
	}
}
