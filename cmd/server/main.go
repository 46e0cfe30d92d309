// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

// Package main is the serve-stage entry point.
//
// The server exposes the last published analytics snapshot over a
// pure-read HTTP API and pushes live updates over websockets. Startup
// order:
//
//  1. Configuration (koanf: defaults, config file, TICKERWIRE_* env)
//  2. Store client against the analytics database
//  3. WebSocket hub and the snapshot broadcaster (fed by analytics_done)
//  4. Chi router and the HTTP server
//  5. Supervisor tree (messaging layer: hub + broadcaster; api layer:
//     HTTP server)
//
// SIGINT/SIGTERM trigger graceful shutdown: in-flight requests get the
// shutdown timeout to finish and websocket clients are closed. Exit
// status is 0 on graceful shutdown and 1 on a fatal startup error.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tickerwire/tickerwire/internal/api"
	"github.com/tickerwire/tickerwire/internal/config"
	"github.com/tickerwire/tickerwire/internal/fabric"
	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/snapshot"
	"github.com/tickerwire/tickerwire/internal/store"
	"github.com/tickerwire/tickerwire/internal/supervisor"
	ws "github.com/tickerwire/tickerwire/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := store.Dial(ctx, &cfg.Redis, cfg.Redis.DB.Analytics)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to analytics store")
	}
	defer func() {
		if err := client.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing store client")
		}
	}()

	reader := snapshot.NewReader(client, cfg.Analytics.KeyPrefix)

	listenChannel := cfg.Notification.Listen.Channel
	if listenChannel == "" {
		listenChannel = "analytics_done"
	}
	listener := fabric.NewListener(ctx, client, listenChannel,
		cfg.Notification.Listen.Enabled, cfg.Notification.Listen.PollInterval)

	hub := ws.NewHub()
	broadcaster := ws.NewBroadcaster(hub, reader, listener)

	handler := api.NewHandler(reader)
	router := api.NewRouter(handler, hub, broadcaster, cfg.Server)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := api.NewServer(addr, router.Setup(), cfg.Server.Timeout)

	tree := supervisor.NewTree("tickerwire-server", supervisor.DefaultTreeConfig())
	tree.AddMessagingService(hub)
	tree.AddMessagingService(broadcaster)
	tree.AddAPIService(api.NewServerService(server, addr, supervisor.DefaultTreeConfig().ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	logging.Info().
		Str("addr", addr).
		Str("key_prefix", cfg.Analytics.KeyPrefix).
		Str("listen_channel", listenChannel).
		Msg("server starting")

	errCh := tree.ServeBackground(ctx)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("service failed to stop within timeout")
	}
	logging.Info().Msg("server stopped gracefully")
}
