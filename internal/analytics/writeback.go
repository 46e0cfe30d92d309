// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package analytics

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/models"
	"github.com/tickerwire/tickerwire/internal/store"
)

// Updater writes oracle-predicted sentiment labels back into the clean
// queue so later passes do not re-predict the same records.
type Updater struct {
	client *store.Client
	queue  string
}

// NewUpdater binds an updater to the clean queue.
func NewUpdater(client *store.Client, queue string) *Updater {
	return &Updater{client: client, queue: queue}
}

// WriteBackStats counts one write-back run.
type WriteBackStats struct {
	Updated  int
	NotFound int
}

// ApplyDeferred rewrites all updated entries in one linear scan plus one
// non-transactional pipeline. Entries are decoded as generic maps so
// fields this engine does not know about survive the rewrite. Updated
// entries move to the queue tail; acceptable because dedup, not order,
// is the at-most-once mechanism.
func (u *Updater) ApplyDeferred(ctx context.Context, updates map[string]string) (WriteBackStats, error) {
	var stats WriteBackStats
	if len(updates) == 0 {
		return stats, nil
	}

	entries, err := u.client.QueueRange(ctx, u.queue, 0, -1)
	if err != nil {
		return stats, fmt.Errorf("scan clean queue: %w", err)
	}

	var remove, add []string
	for _, entry := range entries {
		rewritten, ok := rewriteEntry(entry, updates)
		if !ok {
			continue
		}
		remove = append(remove, entry)
		add = append(add, rewritten)
	}
	stats.Updated = len(add)
	stats.NotFound = len(updates) - countDistinctHits(entries, updates)
	if stats.NotFound < 0 {
		stats.NotFound = 0
	}

	if err := u.client.QueueRewrite(ctx, u.queue, remove, add); err != nil {
		return stats, fmt.Errorf("rewrite clean queue: %w", err)
	}
	logging.Info().
		Int("updated", stats.Updated).
		Int("not_found", stats.NotFound).
		Msg("deferred sentiment write-back applied")
	return stats, nil
}

// ApplyImmediate rewrites each updated record as soon as it is known:
// find the entry, remove one occurrence, re-append the updated record.
// Correct but O(N·M); the deferred path is the default.
func (u *Updater) ApplyImmediate(ctx context.Context, id, sentiment string) (bool, error) {
	entries, err := u.client.QueueRange(ctx, u.queue, 0, -1)
	if err != nil {
		return false, err
	}
	updates := map[string]string{id: sentiment}
	for _, entry := range entries {
		rewritten, ok := rewriteEntry(entry, updates)
		if !ok {
			continue
		}
		if err := u.client.RemoveOne(ctx, u.queue, entry); err != nil {
			return false, err
		}
		if err := u.client.PushTail(ctx, u.queue, rewritten); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// rewriteEntry applies a pending update to one raw entry, returning the
// re-serialized form; ok is false when the entry is untouched.
func rewriteEntry(entry string, updates map[string]string) (string, bool) {
	var record map[string]any
	if err := json.Unmarshal([]byte(entry), &record); err != nil {
		return "", false
	}
	id := entryID(record)
	sentiment, hit := updates[id]
	if id == "" || !hit {
		return "", false
	}
	record["sentiment"] = sentiment
	payload, err := json.Marshal(record)
	if err != nil {
		return "", false
	}
	return string(payload), true
}

func entryID(record map[string]any) string {
	return firstNonEmpty(
		models.RawItem(record).String("id"),
		models.RawItem(record).String("post_id"),
	)
}

func countDistinctHits(entries []string, updates map[string]string) int {
	hit := make(map[string]struct{})
	for _, entry := range entries {
		var record map[string]any
		if err := json.Unmarshal([]byte(entry), &record); err != nil {
			continue
		}
		if id := entryID(record); id != "" {
			if _, ok := updates[id]; ok {
				hit[id] = struct{}{}
			}
		}
	}
	return len(hit)
}
