// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

// Package websocket pushes analytics snapshot sections to dashboard
// clients over a hub-and-spoke fanout. Clients attach to one section
// channel (trending, wordcloud, news, history) or to "all"; the
// broadcaster pushes fresh sections whenever the analytics stage
// announces a completed pass.
//
// Client protocol: {"type":"ping"} is answered with a pong,
// {"type":"request_data","channel":"<section>"} with that section's
// current payload, anything else with an error message.
//
// Each client runs two goroutines: readPump handles inbound protocol
// messages, writePump serializes outbound sends and keepalive pings.
package websocket
