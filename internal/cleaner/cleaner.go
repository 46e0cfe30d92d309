// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

// Package cleaner implements the second pipeline stage: one pass per
// upstream scrape, reading the raw queue non-destructively, validating,
// deduplicating against the fingerprint cache and appending normalized
// survivors to the clean queue.
package cleaner

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tickerwire/tickerwire/internal/config"
	"github.com/tickerwire/tickerwire/internal/fabric"
	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/metrics"
	"github.com/tickerwire/tickerwire/internal/models"
	"github.com/tickerwire/tickerwire/internal/retention"
	"github.com/tickerwire/tickerwire/internal/store"
)

// Stats counts one pass. Processed always equals Cleaned + Duplicates +
// Invalid; QueueLength is the clean queue length after trim.
type Stats struct {
	Processed   int64
	Cleaned     int64
	Duplicates  int64
	Invalid     int64
	QueueLength int64
}

func (s Stats) statistics() map[string]any {
	return map[string]any{
		"processed":    s.Processed,
		"cleaned":      s.Cleaned,
		"duplicates":   s.Duplicates,
		"invalid":      s.Invalid,
		"queue_length": s.QueueLength,
	}
}

// Cleaner executes passes over the raw queue.
type Cleaner struct {
	raw      *store.Client
	clean    *store.Client
	cache    *IDCache
	notifier *fabric.Notifier
	trimmer  *retention.Trimmer
	exporter *Exporter

	rawQueue   string
	cleanQueue string
	batchSize  int64

	now func() time.Time
}

// New assembles a cleaner. The exporter may be nil.
func New(raw, clean *store.Client, cache *IDCache, notifier *fabric.Notifier,
	trimmer *retention.Trimmer, exporter *Exporter, cfg *config.Config) *Cleaner {
	return &Cleaner{
		raw:        raw,
		clean:      clean,
		cache:      cache,
		notifier:   notifier,
		trimmer:    trimmer,
		exporter:   exporter,
		rawQueue:   cfg.Redis.Queue.Raw,
		cleanQueue: cfg.Redis.Queue.Clean,
		batchSize:  int64(cfg.Dedup.BatchSize),
		now:        time.Now,
	}
}

// SetClock overrides the wall clock for tests.
func (c *Cleaner) SetClock(now func() time.Time) { c.now = now }

// Pass runs one cleaning pass and publishes clean_done. The raw queue is
// read by index range and never consumed; the fingerprint cache is what
// makes reprocessing idempotent. A store error aborts the pass but still
// publishes the partial counts accumulated so far.
func (c *Cleaner) Pass(ctx context.Context, _ models.Notification) error {
	stats, passErr := c.run(ctx)

	length, err := c.clean.QueueLen(ctx, c.cleanQueue)
	if err == nil {
		stats.QueueLength = length
		metrics.UpdateQueueLength(c.cleanQueue, length)
	}
	metrics.RecordCleanPass(int(stats.Cleaned), int(stats.Duplicates), int(stats.Invalid))

	note := models.NewNotification(models.EventCleanDone, stats.statistics())
	if err := c.notifier.Publish(ctx, note); err != nil {
		logging.Error().Err(err).Msg("clean_done publish failed")
	}

	logging.Info().
		Int64("processed", stats.Processed).
		Int64("cleaned", stats.Cleaned).
		Int64("duplicates", stats.Duplicates).
		Int64("invalid", stats.Invalid).
		Int64("queue_length", stats.QueueLength).
		Msg("clean pass finished")
	return passErr
}

func (c *Cleaner) run(ctx context.Context) (Stats, error) {
	var stats Stats

	total, err := c.raw.QueueLen(ctx, c.rawQueue)
	if err != nil {
		return stats, fmt.Errorf("raw queue length: %w", err)
	}
	if total == 0 {
		return stats, nil
	}

	// First fingerprint seen in a pass wins; later occurrences are
	// duplicates even before the cache write lands.
	seenInPass := make(map[string]struct{})
	var exported []models.CleanItem

	for offset := int64(0); offset < total; offset += c.batchSize {
		end := offset + c.batchSize - 1
		if end >= total {
			end = total - 1
		}
		entries, err := c.raw.QueueRange(ctx, c.rawQueue, offset, end)
		if err != nil {
			return stats, fmt.Errorf("raw queue read at %d: %w", offset, err)
		}

		for _, entry := range entries {
			stats.Processed++

			var item models.RawItem
			if err := json.Unmarshal([]byte(entry), &item); err != nil {
				stats.Invalid++
				continue
			}
			if item.String("source") == "" || !item.HasText() {
				stats.Invalid++
				continue
			}

			fp, kind := FingerprintItem(item)
			if _, dup := seenInPass[fp]; dup {
				stats.Duplicates++
				continue
			}
			dup, err := c.cache.Seen(ctx, fp)
			if err != nil {
				return stats, fmt.Errorf("dedup lookup: %w", err)
			}
			if dup {
				stats.Duplicates++
				continue
			}

			clean := Normalize(item, fp, kind, c.now())
			payload, err := json.Marshal(&clean)
			if err != nil {
				stats.Invalid++
				continue
			}
			if err := c.clean.PushHead(ctx, c.cleanQueue, string(payload)); err != nil {
				return stats, fmt.Errorf("clean queue push: %w", err)
			}
			if err := c.cache.Add(ctx, fp); err != nil {
				return stats, fmt.Errorf("dedup record: %w", err)
			}
			seenInPass[fp] = struct{}{}
			stats.Cleaned++
			if c.exporter != nil {
				exported = append(exported, clean)
			}
		}
	}

	if expired, err := c.cache.Sweep(ctx); err != nil {
		logging.Warn().Err(err).Msg("id cache sweep failed")
	} else if expired > 0 {
		logging.Debug().Int64("expired", expired).Msg("id cache entries expired")
	}

	if _, err := c.trimmer.Trim(ctx); err != nil {
		logging.Warn().Err(err).Str("queue", c.cleanQueue).Msg("clean queue trim failed")
	}

	if c.exporter != nil && len(exported) > 0 {
		if err := c.exporter.Export(exported); err != nil {
			logging.Warn().Err(err).Msg("jsonl export failed")
		}
	}

	return stats, nil
}
