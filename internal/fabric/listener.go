// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package fabric

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/metrics"
	"github.com/tickerwire/tickerwire/internal/models"
	"github.com/tickerwire/tickerwire/internal/store"
)

// receiveTimeout bounds every blocking receive so cancellation is
// observed at least once per second.
const receiveTimeout = time.Second

// retryDelay is the pause after a transient store error in the wait loop.
const retryDelay = time.Second

// Tick is one wake-up of a stage worker: either an upstream notification
// arrived, or the poll timer fired.
type Tick struct {
	// FromMessage is true when the tick was driven by a notification.
	FromMessage  bool
	Notification models.Notification
}

// Listener yields ticks from an upstream completion channel, falling back
// to a poll timer when notifications are disabled.
type Listener struct {
	client       *store.Client
	channel      string
	enabled      bool
	pollInterval time.Duration

	pubsub *redis.PubSub
}

// NewListener opens the subscription when notifications are enabled.
// The subscription intent survives transient receive errors; only Close
// tears it down.
func NewListener(ctx context.Context, client *store.Client, channel string, enabled bool, pollInterval time.Duration) *Listener {
	l := &Listener{
		client:       client,
		channel:      channel,
		enabled:      enabled && channel != "",
		pollInterval: pollInterval,
	}
	if l.pollInterval <= 0 {
		l.pollInterval = 60 * time.Second
	}
	if l.enabled {
		l.pubsub = client.Subscribe(ctx, channel)
		logging.Info().Str("channel", channel).Msg("subscribed to completion channel")
	}
	return l
}

// Close tears down the subscription. No unsubscribe round-trip is
// attempted; the store cleans up the connection.
func (l *Listener) Close() {
	if l.pubsub != nil {
		_ = l.pubsub.Close()
	}
}

// WaitOrPoll blocks until an upstream notification arrives or the poll
// interval elapses (when notifications are disabled). It returns
// ctx.Err() once the context is canceled; every internal wait is bounded
// by receiveTimeout so the latency to observe cancellation is at most
// one second.
func (l *Listener) WaitOrPoll(ctx context.Context) (Tick, error) {
	if !l.enabled {
		select {
		case <-ctx.Done():
			return Tick{}, ctx.Err()
		case <-time.After(l.pollInterval):
			metrics.NotificationsReceived.WithLabelValues("none", "poll").Inc()
			return Tick{FromMessage: false}, nil
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return Tick{}, err
		}

		msg, err := l.pubsub.ReceiveTimeout(ctx, receiveTimeout)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return Tick{}, ctx.Err()
			}
			// Transient store error: brief sleep, keep the subscription
			// intent, try again.
			logging.Warn().Err(err).Str("channel", l.channel).Msg("receive failed, retrying")
			select {
			case <-ctx.Done():
				return Tick{}, ctx.Err()
			case <-time.After(retryDelay):
			}
			continue
		}

		m, ok := msg.(*redis.Message)
		if !ok {
			// Subscription confirmations and pongs are not ticks.
			continue
		}

		var note models.Notification
		if err := json.Unmarshal([]byte(m.Payload), &note); err != nil {
			logging.Warn().Err(err).Str("channel", l.channel).Msg("malformed notification skipped")
			continue
		}
		metrics.NotificationsReceived.WithLabelValues(note.Event, "pubsub").Inc()
		return Tick{FromMessage: true, Notification: note}, nil
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
