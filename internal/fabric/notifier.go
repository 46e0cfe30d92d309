// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package fabric

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/metrics"
	"github.com/tickerwire/tickerwire/internal/models"
	"github.com/tickerwire/tickerwire/internal/store"
)

// Notifier publishes stage-completion notifications. Publishing is
// fire-and-forget; the subscriber count is logged for observability only.
type Notifier struct {
	client  *store.Client
	channel string
	enabled bool
}

// NewNotifier builds a notifier for one send channel. A disabled
// notifier swallows publishes silently, which keeps call sites
// unconditional.
func NewNotifier(client *store.Client, channel string, enabled bool) *Notifier {
	return &Notifier{client: client, channel: channel, enabled: enabled && channel != ""}
}

// Publish serializes the notification and sends it. Errors are returned
// for logging but a failed publish never fails the pass that produced it.
func (n *Notifier) Publish(ctx context.Context, note models.Notification) error {
	if !n.enabled {
		return nil
	}
	if note.CorrelationID == "" {
		note.CorrelationID = uuid.NewString()
	}
	payload, err := json.Marshal(note)
	if err != nil {
		return err
	}
	subscribers, err := n.client.Publish(ctx, n.channel, string(payload))
	if err != nil {
		return err
	}
	metrics.NotificationsPublished.WithLabelValues(note.Event).Inc()
	logging.Info().
		Str("channel", n.channel).
		Str("event", note.Event).
		Int64("subscribers", subscribers).
		Msg("completion notification published")
	return nil
}
