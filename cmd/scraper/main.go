// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

// Package main is the scrape-stage entry point.
//
// The scraper runs every registered crawler adapter, pushes their raw
// items onto raw_queue in the scrape database, trims the queue by
// retention policy and publishes scrape_done. Crawler adapters are
// external; the built-in spool crawler ingests JSON drops they leave in
// scraper.spool_dir.
//
// Flags:
//
//	--loop              repeat passes until SIGINT/SIGTERM
//	--interval <sec>    sleep between passes in loop mode
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

	"github.com/tickerwire/tickerwire/internal/config"
	"github.com/tickerwire/tickerwire/internal/fabric"
	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/retention"
	"github.com/tickerwire/tickerwire/internal/scraper"
	"github.com/tickerwire/tickerwire/internal/store"
)

func main() {
	loop := flag.Bool("loop", false, "repeat scrape passes until interrupted")
	interval := flag.Int("interval", 0, "seconds between passes in loop mode (overrides config)")
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

	if *loop {
		cfg.Scraper.Loop = true
	}
	if *interval > 0 {
		cfg.Scraper.IntervalSeconds = *interval
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := store.Dial(ctx, &cfg.Redis, cfg.Redis.DB.Scrape)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to store")
	}
	defer func() {
		if err := client.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing store client")
		}
	}()

	sendChannel := cfg.Notification.Send.Channel
	if sendChannel == "" {
		sendChannel = "scrape_done"
	}
	notifier := fabric.NewNotifier(client, sendChannel, cfg.Notification.Send.Enabled)
	trimmer := retention.NewTrimmer(client, cfg.Redis.Queue.Raw,
		cfg.Retention.MaxAge(), int64(cfg.Retention.MaxItems))

	cc := scraper.NewControlCenter(client, cfg.Redis.Queue.Raw, notifier, trimmer)
	if cfg.Scraper.SpoolDir != "" {
		cc.Register(scraper.NewSpoolCrawler(cfg.Scraper.SpoolDir), 0)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	logging.Info().
		Bool("loop", cfg.Scraper.Loop).
		Int("interval_seconds", cfg.Scraper.IntervalSeconds).
		Str("queue", cfg.Redis.Queue.Raw).
		Msg("scraper starting")

	if cfg.Scraper.Loop {
		err = cc.RunLoop(ctx, time.Duration(cfg.Scraper.IntervalSeconds)*time.Second)
	} else {
		err = cc.RunAll(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("scrape pass failed")
		os.Exit(1)
	}
	logging.Info().Msg("scraper stopped gracefully")
}
