// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package websocket

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// clientIDCounter hands out monotonically increasing client ids so
// broadcast fanout has a deterministic order.
var clientIDCounter atomic.Uint64

// SectionSource serves a section's current payload for request_data.
type SectionSource interface {
	Section(ctx context.Context, channel string) (any, error)
}

// Client is the middleman between one websocket connection and the hub.
type Client struct {
	id      uint64
	hub     *Hub
	conn    *websocket.Conn
	source  SectionSource
	channel string
	send    chan Message
}

// NewClient wraps an upgraded connection attached to one section channel.
func NewClient(hub *Hub, conn *websocket.Conn, source SectionSource, channel string) *Client {
	return &Client{
		id:      clientIDCounter.Add(1),
		hub:     hub,
		conn:    conn,
		source:  source,
		channel: channel,
		send:    make(chan Message, 256),
	}
}

// Start registers the client and begins its pumps.
func (c *Client) Start() {
	c.hub.Register <- c
	c.reply(stamp(Message{Type: MessageTypeConnected, Channel: c.channel}))
	go c.writePump()
	go c.readPump()
}

// readPump consumes client protocol messages until the connection dies.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error().Err(err).Msg("unexpected websocket close")
			}
			return
		}
		metrics.WSMessagesReceived.Inc()
		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case MessageTypePing:
		c.reply(stamp(Message{Type: MessageTypePong}))

	case MessageTypeRequestData:
		channel := msg.Channel
		if channel == "" {
			channel = c.channel
		}
		if !KnownChannel(channel) {
			c.reply(stamp(Message{Type: MessageTypeError, Error: "unknown channel: " + channel}))
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		data, err := c.source.Section(ctx, channel)
		if err != nil {
			logging.Warn().Err(err).Str("channel", channel).Msg("section fetch failed")
			c.reply(stamp(Message{Type: MessageTypeError, Error: "section unavailable: " + channel}))
			return
		}
		c.reply(stamp(Message{Type: MessageTypeUpdate, Channel: channel, Data: data}))

	default:
		c.reply(stamp(Message{Type: MessageTypeError, Error: "unknown message type: " + msg.Type}))
	}
}

// reply enqueues without blocking; a client that cannot drain its own
// replies loses them.
func (c *Client) reply(msg Message) {
	select {
	case c.send <- msg:
	default:
	}
}

// writePump serializes all writes to the connection and keeps it alive
// with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				// Hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				logging.Error().Err(err).Msg("websocket write failed")
				return
			}
			metrics.WSMessagesSent.Inc()

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
