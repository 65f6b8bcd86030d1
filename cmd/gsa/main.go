package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soulmaestro/GoblinStockAlerts/config"
	"github.com/soulmaestro/GoblinStockAlerts/internal/adapters/addon"
	"github.com/soulmaestro/GoblinStockAlerts/internal/adapters/blizzard"
	"github.com/soulmaestro/GoblinStockAlerts/internal/adapters/notify"
	"github.com/soulmaestro/GoblinStockAlerts/internal/adapters/storage"
	"github.com/soulmaestro/GoblinStockAlerts/internal/ports"
	"github.com/soulmaestro/GoblinStockAlerts/internal/staticdb"
	"github.com/soulmaestro/GoblinStockAlerts/internal/watcher"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	history := flag.Bool("history", false, "print recorded deals from the last 24h and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	db, err := staticdb.Load()
	if err != nil {
		slog.Error("failed to load reference data", "err", err)
		os.Exit(1)
	}

	shopping, err := cfg.ShoppingLists(db)
	if err != nil {
		slog.Error("invalid shopping configuration", "err", err)
		os.Exit(1)
	}

	var dealHistory ports.DealHistory
	if cfg.Database != "" {
		dealHistory, err = storage.NewSQLiteHistory(cfg.Database)
		if err != nil {
			slog.Error("failed to open deal history", "err", err, "path", cfg.Database)
			os.Exit(1)
		}
		defer dealHistory.Close()
	}

	if *history {
		printHistory(dealHistory, db, cfg.Region)
		return
	}

	var exporter ports.DealExporter
	if cfg.AddonPath != "" {
		exporter, err = addon.NewExporter(cfg.AddonPath, db, cfg.Region)
		if err != nil {
			slog.Error("failed to set up addon export", "err", err, "path", cfg.AddonPath)
			os.Exit(1)
		}
	}

	creds := cfg.Credentials()
	provider := blizzard.NewProvider(blizzard.NewClient(cfg.Region, creds.ClientID, creds.Secret, "", ""))
	notifier := notify.NewConsole(db, cfg.Region, shopping)

	slog.Info("GoblinStockAlerts starting",
		"config", *configPath,
		"region", cfg.Region,
		"mode", cfg.Mode,
		"realms", len(shopping),
	)

	w := watcher.New(cfg.WatcherConfig(), provider, db, shopping, notifier, exporter, dealHistory)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("watcher exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("GoblinStockAlerts stopped cleanly")
}

func printHistory(dealHistory ports.DealHistory, db *staticdb.DB, region string) {
	if dealHistory == nil {
		slog.Error("deal history requires a database path in the config")
		os.Exit(1)
	}

	entries, err := dealHistory.History(context.Background(),
		time.Now().Add(-24*time.Hour), time.Now())
	if err != nil {
		slog.Error("failed to read deal history", "err", err)
		os.Exit(1)
	}

	notify.PrintHistory(os.Stdout, db, region, entries)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
