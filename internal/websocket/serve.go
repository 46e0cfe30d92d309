// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/tickerwire/tickerwire/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Dashboards are served from arbitrary origins; the read API carries
	// no credentials and the socket is pure-read, so origin is not
	// enforced here. CORS policy applies to the HTTP surface instead.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request to a websocket attached to one
// section channel.
func ServeWS(hub *Hub, source SectionSource, channel string, w http.ResponseWriter, r *http.Request) {
	if !KnownChannel(channel) {
		http.Error(w, "unknown channel", http.StatusNotFound)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	NewClient(hub, conn, source, channel).Start()
}
