// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package websocket

import (
	"context"
	"fmt"

	"github.com/tickerwire/tickerwire/internal/fabric"
	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/snapshot"
)

// Broadcaster listens for analytics completions and pushes the fresh
// sections to connected clients. It also serves request_data fetches,
// so it is the hub's SectionSource.
type Broadcaster struct {
	hub      *Hub
	reader   *snapshot.Reader
	listener *fabric.Listener
}

// NewBroadcaster wires the push path.
func NewBroadcaster(hub *Hub, reader *snapshot.Reader, listener *fabric.Listener) *Broadcaster {
	return &Broadcaster{hub: hub, reader: reader, listener: listener}
}

// String implements fmt.Stringer for supervisor logs.
func (b *Broadcaster) String() string { return "snapshot-broadcaster" }

// Serve implements suture.Service: wait for an analytics completion (or
// the poll tick), read the new snapshot, broadcast each section.
func (b *Broadcaster) Serve(ctx context.Context) error {
	defer b.listener.Close()
	for {
		tick, err := b.listener.WaitOrPoll(ctx)
		if err != nil {
			return err
		}
		if tick.FromMessage {
			logging.Debug().Str("event", tick.Notification.Event).Msg("snapshot update received")
		}
		b.pushAll(ctx)
	}
}

// pushAll broadcasts every section; a failed section read is logged and
// the rest still go out.
func (b *Broadcaster) pushAll(ctx context.Context) {
	for _, channel := range []string{ChannelTrending, ChannelWordCloud, ChannelNews, ChannelHistory} {
		data, err := b.Section(ctx, channel)
		if err != nil {
			logging.Warn().Err(err).Str("channel", channel).Msg("section read failed, broadcast skipped")
			continue
		}
		b.hub.Broadcast(channel, Message{Type: MessageTypeUpdate, Channel: channel, Data: data})
	}
}

// Section serves one channel's current payload.
func (b *Broadcaster) Section(ctx context.Context, channel string) (any, error) {
	switch channel {
	case ChannelTrending:
		return b.reader.Trending(ctx)
	case ChannelWordCloud:
		return b.reader.WordCloud(ctx)
	case ChannelNews:
		return b.reader.NewsFeed(ctx)
	case ChannelHistory:
		return b.reader.History(ctx)
	case ChannelAll:
		return b.reader.All(ctx)
	default:
		return nil, fmt.Errorf("unknown section channel %q", channel)
	}
}
