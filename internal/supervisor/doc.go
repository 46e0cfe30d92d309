// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

/*
Package supervisor provides process supervision for Tickerwire using
suture v4.

Each binary builds a small supervisor tree and adds its long-running
services to one of three layers:

	Root ("tickerwire-server", "tickerwire-cleaner", ...)
	├── PipelineSupervisor ("pipeline-layer")
	│   └── stage workers (scraper loop, cleaner, analytics)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── websocket hub
	│   └── snapshot broadcaster
	└── APISupervisor ("api-layer")
	    └── HTTP server

The layering gives failure isolation: a stage worker crash restarts
inside the pipeline layer without dropping websocket clients, and a hub
failure leaves the HTTP surface serving the last published snapshot.

Restart behavior follows suture's failure counter with exponential
decay, configured through TreeConfig (thresholds, decay, backoff and
shutdown timeout all default to suture's production values). Supervisor
events are logged through the global zerolog logger via the sutureslog
adapter in the logging package.

All services implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Returning an error triggers a restart; suture.ErrDoNotRestart stops the
service for good; returning promptly on context cancellation is what
makes graceful shutdown work. Use UnstoppedServiceReport to debug
services that ignore cancellation.

Redis itself is not supervised: the go-redis client reconnects
internally, and the stage workers already treat transient store errors
as retryable within a pass.
*/
package supervisor
