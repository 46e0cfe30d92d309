// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

// Package retention bounds every queue in time and size. The producing
// stage trims its own output queue after each pass.
package retention

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/metrics"
	"github.com/tickerwire/tickerwire/internal/models"
	"github.com/tickerwire/tickerwire/internal/store"
)

// Result summarizes one trim run.
type Result struct {
	Checked   int64
	Removed   int64
	Remaining int64
}

// Trimmer applies the age-based tail trim plus the size backstop to one
// queue. The queue layout is newest-at-head, so aged entries accumulate
// at the tail and the scan stops at the first fresh entry.
type Trimmer struct {
	client   *store.Client
	queue    string
	maxAge   time.Duration
	maxItems int64

	// now is swappable for tests.
	now func() time.Time
}

// NewTrimmer builds a trimmer for one queue.
func NewTrimmer(client *store.Client, queue string, maxAge time.Duration, maxItems int64) *Trimmer {
	return &Trimmer{
		client:   client,
		queue:    queue,
		maxAge:   maxAge,
		maxItems: maxItems,
		now:      time.Now,
	}
}

// SetClock overrides the wall clock; tests use this to pin the cutoff.
func (t *Trimmer) SetClock(now func() time.Time) { t.now = now }

// Trim removes contiguous aged entries from the tail, then applies the
// size backstop. The age scan is idempotent: a second run on the same
// queue removes nothing.
//
// Entries whose timestamp is missing or unparsable are kept and the scan
// stops (conservative). Entries that are not valid JSON are removed and
// the scan continues; an opaque blob has no timestamp and can never be
// reclaimed otherwise.
func (t *Trimmer) Trim(ctx context.Context) (Result, error) {
	var res Result
	cutoff := t.now().Add(-t.maxAge)

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		entry, err := t.client.PeekTail(ctx, t.queue)
		if err != nil {
			return res, err
		}
		if entry == "" {
			break
		}
		res.Checked++

		ts, ok := entryTimestamp(entry)
		if !ok {
			if !json.Valid([]byte(entry)) {
				if _, err := t.client.PopTail(ctx, t.queue); err != nil {
					return res, err
				}
				res.Removed++
				continue
			}
			// Valid record without a usable timestamp: keep it, stop.
			break
		}
		if !ts.Before(cutoff) {
			break
		}
		if _, err := t.client.PopTail(ctx, t.queue); err != nil {
			return res, err
		}
		res.Removed++
	}

	length, err := t.client.QueueLen(ctx, t.queue)
	if err != nil {
		return res, err
	}
	if t.maxItems > 0 && length > t.maxItems {
		if err := t.client.TrimToNewest(ctx, t.queue, t.maxItems); err != nil {
			return res, err
		}
		res.Removed += length - t.maxItems
		length = t.maxItems
		logging.Warn().
			Str("queue", t.queue).
			Int64("max_items", t.maxItems).
			Msg("size backstop trimmed queue")
	}
	res.Remaining = length

	if res.Removed > 0 {
		metrics.TrimmedItems.Add(float64(res.Removed))
		logging.Info().
			Str("queue", t.queue).
			Int64("checked", res.Checked).
			Int64("removed", res.Removed).
			Int64("remaining", res.Remaining).
			Msg("retention trim applied")
	}
	return res, nil
}

// entryTimestamp extracts the trim timestamp from a queue entry. The
// trim convention reads the `timestamp` field (unix seconds or ISO
// string); analytics reads `created_at`. The dual-field convention is
// deliberate.
func entryTimestamp(entry string) (time.Time, bool) {
	var record map[string]any
	if err := json.Unmarshal([]byte(entry), &record); err != nil {
		return time.Time{}, false
	}
	v, ok := record["timestamp"]
	if !ok || v == nil {
		return time.Time{}, false
	}
	return models.ParseFlexibleTime(v)
}
