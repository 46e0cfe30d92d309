// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/metrics"
)

// Section channels a client can attach to. ChannelAll receives every
// section's broadcasts.
const (
	ChannelTrending  = "trending"
	ChannelWordCloud = "wordcloud"
	ChannelNews      = "news"
	ChannelHistory   = "history"
	ChannelAll       = "all"
)

// Message types for client communication.
const (
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
	MessageTypeRequestData = "request_data"
	MessageTypeConnected   = "connection_established"
	MessageTypeError       = "error"
	MessageTypeUpdate      = "data_update"
)

// KnownChannel reports whether name addresses a valid section channel.
func KnownChannel(name string) bool {
	switch name {
	case ChannelTrending, ChannelWordCloud, ChannelNews, ChannelHistory, ChannelAll:
		return true
	}
	return false
}

// Message is one frame of the client protocol.
type Message struct {
	Type      string `json:"type"`
	Channel   string `json:"channel,omitempty"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"message,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

func stamp(msg Message) Message {
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	return msg
}

// broadcastEnvelope routes one message to a section channel's subscribers.
type broadcastEnvelope struct {
	channel string
	message Message
}

// Hub maintains the set of active clients and fans section broadcasts
// out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan broadcastEnvelope
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan broadcastEnvelope, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Broadcast queues a message for every client attached to channel (or to
// "all"). Non-blocking: when the hub's queue is full the message is
// dropped, since a newer snapshot supersedes it anyway.
func (h *Hub) Broadcast(channel string, msg Message) {
	select {
	case h.broadcast <- broadcastEnvelope{channel: channel, message: stamp(msg)}:
	default:
		logging.Warn().Str("channel", channel).Msg("hub broadcast queue full, message dropped")
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// String implements fmt.Stringer for supervisor logs.
func (h *Hub) String() string { return "websocket-hub" }

// Serve runs the hub until the context is canceled; it implements
// suture.Service. Selection is priority-ordered (shutdown, then client
// lifecycle, then broadcasts) so client state is consistent before any
// message is fanned out.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case env := <-h.broadcast:
			h.fanOut(env)
		}
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	metrics.TrackWSConnection(true)
	logging.Info().
		Str("channel", client.channel).
		Int("total_clients", total).
		Msg("websocket client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	known := false
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		known = true
	}
	total := len(h.clients)
	h.mu.Unlock()
	if known {
		metrics.TrackWSConnection(false)
	}
	logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

// fanOut delivers to subscribers of the envelope's channel plus "all"
// listeners, in client-id order so delivery is deterministic. A client
// with a full send buffer is skipped, not evicted; its writePump owns
// teardown.
func (h *Hub) fanOut(env broadcastEnvelope) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		if client.channel == env.channel || client.channel == ChannelAll {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	sort.Slice(targets, func(i, j int) bool { return targets[i].id < targets[j].id })
	for _, client := range targets {
		select {
		case client.send <- env.message:
		default:
			logging.Warn().Uint64("client_id", client.id).Msg("slow websocket client, message dropped")
		}
	}
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	count := len(h.clients)
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
		metrics.TrackWSConnection(false)
	}
	h.mu.Unlock()

	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", reason).
		Int("clients_closed", count).
		Msg("websocket hub stopped")
}
