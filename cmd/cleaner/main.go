// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

// Package main is the clean-stage entry point.
//
// The cleaner reads raw_queue non-destructively, validates and
// deduplicates items against the fingerprint cache, appends normalized
// survivors to the clean queue and publishes clean_done. A pass is
// triggered by scrape_done (event_driven), by a timer (continuous), or
// exactly once (once).
//
// Flags:
//
//	--mode {event_driven|continuous|once}   trigger mode (overrides config)
//	--interval <sec>                        poll cadence for continuous mode
//
// Exit status is 0 on graceful shutdown and 1 on a fatal startup error.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tickerwire/tickerwire/internal/cleaner"
	"github.com/tickerwire/tickerwire/internal/config"
	"github.com/tickerwire/tickerwire/internal/fabric"
	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/retention"
	"github.com/tickerwire/tickerwire/internal/store"
	"github.com/tickerwire/tickerwire/internal/supervisor"
)

func main() {
	mode := flag.String("mode", "", "event_driven, continuous or once (overrides config)")
	interval := flag.Int("interval", 0, "poll seconds for continuous mode (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if *mode != "" {
		cfg.Notification.Listen.Mode = *mode
	}
	if *interval > 0 {
		cfg.Notification.Listen.PollInterval = time.Duration(*interval) * time.Second
	}
	runMode := cfg.Notification.Listen.Mode
	if runMode == "" {
		runMode = config.ModeEventDriven
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	raw, err := store.Dial(ctx, &cfg.Redis, cfg.Redis.DB.Scrape)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to scrape store")
	}
	defer closeClient(raw, "scrape")

	clean, err := store.Dial(ctx, &cfg.Redis, cfg.Redis.DB.Clean)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to clean store")
	}
	defer closeClient(clean, "clean")

	cache := cleaner.NewIDCache(clean, cfg.Redis.IDCacheKey, cfg.Dedup)
	if err := cache.Init(ctx, cfg.Dedup.ClearOnStart); err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize fingerprint cache")
	}

	var exporter *cleaner.Exporter
	if cfg.Export.Enabled {
		exporter, err = cleaner.NewExporter(cfg.Export.Dir)
		if err != nil {
			logging.Fatal().Err(err).Str("dir", cfg.Export.Dir).Msg("failed to open export directory")
		}
		logging.Info().Str("dir", cfg.Export.Dir).Msg("jsonl export enabled")
	}

	sendChannel := cfg.Notification.Send.Channel
	if sendChannel == "" {
		sendChannel = "clean_done"
	}
	listenChannel := cfg.Notification.Listen.Channel
	if listenChannel == "" {
		listenChannel = "scrape_done"
	}

	notifier := fabric.NewNotifier(clean, sendChannel, cfg.Notification.Send.Enabled)
	trimmer := retention.NewTrimmer(clean, cfg.Redis.Queue.Clean,
		cfg.Retention.MaxAge(), int64(cfg.Retention.MaxItems))
	stage := cleaner.New(raw, clean, cache, notifier, trimmer, exporter, cfg)

	// continuous mode disables the subscription so every tick comes from
	// the poll timer.
	listenEnabled := cfg.Notification.Listen.Enabled && runMode == config.ModeEventDriven
	listener := fabric.NewListener(ctx, raw, listenChannel, listenEnabled,
		cfg.Notification.Listen.PollInterval)
	worker := fabric.NewWorker("cleaner", listener, stage.Pass, true)

	logging.Info().
		Str("mode", runMode).
		Str("listen_channel", listenChannel).
		Str("cache_mode", cache.Mode()).
		Msg("cleaner starting")

	if runMode == config.ModeOnce {
		if err := worker.RunOnce(ctx); err != nil {
			logging.Error().Err(err).Msg("clean pass failed")
			os.Exit(1)
		}
		logging.Info().Msg("cleaner finished single pass")
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	tree := supervisor.NewTree("tickerwire-cleaner", supervisor.DefaultTreeConfig())
	tree.AddPipelineService(worker)

	errCh := tree.ServeBackground(ctx)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor error")
		}
	}
	reportUnstopped(tree)
	logging.Info().Msg("cleaner stopped gracefully")
}

func closeClient(c *store.Client, name string) {
	if err := c.Close(); err != nil {
		logging.Error().Err(err).Str("store", name).Msg("error closing store client")
	}
}

func reportUnstopped(tree *supervisor.Tree) {
	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("service failed to stop within timeout")
	}
}
