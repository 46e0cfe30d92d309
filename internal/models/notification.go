// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package models

import "time"

// Event tags carried by stage-completion notifications. Channel names are
// configuration; event tags are part of the payload contract.
const (
	EventScrapeDone    = "scrape_done"
	EventCleanDone     = "clean_done"
	EventAnalyticsDone = "analytics_done"
)

// Notification is the pub/sub payload published when a stage completes a
// pass. Consumers must ignore unknown fields.
type Notification struct {
	Event      string         `json:"event"`
	Timestamp  string         `json:"timestamp"`
	Statistics map[string]any `json:"statistics,omitempty"`

	// CorrelationID ties a notification chain across stages in logs.
	CorrelationID string `json:"correlation_id,omitempty"`
}

// NewNotification stamps a notification with the current wall time.
func NewNotification(event string, stats map[string]any) Notification {
	return Notification{
		Event:      event,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Statistics: stats,
	}
}
