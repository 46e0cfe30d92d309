// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

// Package main is the analyze-stage entry point.
//
// The analyzer reads the full clean queue, fills missing sentiment
// labels through the oracle, computes windowed trend analytics and
// publishes the snapshot sections into the analytics database, then
// announces analytics_done. A pass is triggered by clean_done
// (event_driven), by a timer (continuous), or exactly once (once).
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

	"github.com/tickerwire/tickerwire/internal/analytics"
	"github.com/tickerwire/tickerwire/internal/config"
	"github.com/tickerwire/tickerwire/internal/fabric"
	"github.com/tickerwire/tickerwire/internal/logging"
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

	clean, err := store.Dial(ctx, &cfg.Redis, cfg.Redis.DB.Clean)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to clean store")
	}
	defer closeClient(clean, "clean")

	output, err := store.Dial(ctx, &cfg.Redis, cfg.Redis.DB.Analytics)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to analytics store")
	}
	defer closeClient(output, "analytics")

	sendChannel := cfg.Notification.Send.Channel
	if sendChannel == "" {
		sendChannel = "analytics_done"
	}
	listenChannel := cfg.Notification.Listen.Channel
	if listenChannel == "" {
		listenChannel = "clean_done"
	}

	// The model-backed oracle is an external collaborator; the heuristic
	// stands in behind the same breaker so outages degrade rather than
	// stall the pass.
	var oracle analytics.SentimentOracle
	if cfg.Sentiment.Enabled {
		oracle = analytics.NewBreakerOracle(analytics.HeuristicOracle{}, cfg.Sentiment.FallbackToHeuristic)
	}

	notifier := fabric.NewNotifier(output, sendChannel, cfg.Notification.Send.Enabled)
	updater := analytics.NewUpdater(clean, cfg.Redis.Queue.Clean)
	engine := analytics.New(clean, output, oracle, updater, notifier, cfg)

	listenEnabled := cfg.Notification.Listen.Enabled && runMode == config.ModeEventDriven
	listener := fabric.NewListener(ctx, clean, listenChannel, listenEnabled,
		cfg.Notification.Listen.PollInterval)
	worker := fabric.NewWorker("analytics", listener, engine.Pass, true)

	logging.Info().
		Str("mode", runMode).
		Str("listen_channel", listenChannel).
		Bool("sentiment", cfg.Sentiment.Enabled).
		Str("key_prefix", cfg.Analytics.KeyPrefix).
		Msg("analyzer starting")

	if runMode == config.ModeOnce {
		if err := worker.RunOnce(ctx); err != nil {
			logging.Error().Err(err).Msg("analytics pass failed")
			os.Exit(1)
		}
		logging.Info().Msg("analyzer finished single pass")
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	tree := supervisor.NewTree("tickerwire-analyzer", supervisor.DefaultTreeConfig())
	tree.AddPipelineService(worker)

	errCh := tree.ServeBackground(ctx)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor error")
		}
	}
	reportUnstopped(tree)
	logging.Info().Msg("analyzer stopped gracefully")
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
