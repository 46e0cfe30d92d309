// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

// Package scraper implements the first pipeline stage: run every
// registered crawler, push its items onto the raw queue, trim the queue
// and announce scrape_done. Crawler adapters live behind the Crawler
// interface; the stage owns scheduling, accounting and the store.
package scraper

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/tickerwire/tickerwire/internal/fabric"
	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/metrics"
	"github.com/tickerwire/tickerwire/internal/models"
	"github.com/tickerwire/tickerwire/internal/retention"
	"github.com/tickerwire/tickerwire/internal/store"
)

// Stats is a crawler's per-run accounting, e.g. {"posts": 12,
// "comments": 40, "errors": 1}. The "errors" key is the only one the
// control center interprets; everything else is summed as items.
type Stats map[string]int

// Items returns the sum of all non-error counters.
func (s Stats) Items() int {
	total := 0
	for k, v := range s {
		if k != "errors" {
			total += v
		}
	}
	return total
}

// Merge adds other's counters into s.
func (s Stats) Merge(other Stats) {
	for k, v := range other {
		s[k] += v
	}
}

// Crawler fetches one source. A failed crawl returns what it got plus an
// error; the control center logs it and moves on to the next source.
type Crawler interface {
	Name() string
	Crawl(ctx context.Context) ([]models.RawItem, Stats, error)
}

// registration pairs a crawler with its minimum re-run interval. Zero
// means run on every pass.
type registration struct {
	crawler  Crawler
	interval time.Duration
	lastRun  time.Time
}

// ControlCenter orchestrates all crawlers against the raw queue.
type ControlCenter struct {
	client   *store.Client
	queue    string
	notifier *fabric.Notifier
	trimmer  *retention.Trimmer

	crawlers []*registration
	totals   map[string]Stats

	now func() time.Time
}

// NewControlCenter builds the stage around the raw-queue client.
func NewControlCenter(client *store.Client, queue string, notifier *fabric.Notifier, trimmer *retention.Trimmer) *ControlCenter {
	return &ControlCenter{
		client:   client,
		queue:    queue,
		notifier: notifier,
		trimmer:  trimmer,
		totals:   make(map[string]Stats),
		now:      time.Now,
	}
}

// SetClock overrides the wall clock for tests.
func (cc *ControlCenter) SetClock(now func() time.Time) { cc.now = now }

// Register adds a crawler with an optional per-source minimum interval.
func (cc *ControlCenter) Register(c Crawler, minInterval time.Duration) {
	cc.crawlers = append(cc.crawlers, &registration{crawler: c, interval: minInterval})
	cc.totals[c.Name()] = Stats{}
	logging.Info().
		Str("crawler", c.Name()).
		Dur("min_interval", minInterval).
		Msg("crawler registered")
}

// RunAll executes one scrape pass: every due crawler in registration
// order, then retention trim, then scrape_done. A crawler failure is
// counted and logged, never fatal to the pass.
func (cc *ControlCenter) RunAll(ctx context.Context) error {
	passStats := make(map[string]Stats)

	for _, reg := range cc.crawlers {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := reg.crawler.Name()
		if reg.interval > 0 && !reg.lastRun.IsZero() {
			if since := cc.now().Sub(reg.lastRun); since < reg.interval {
				logging.Debug().
					Str("crawler", name).
					Dur("since_last", since).
					Msg("crawler skipped, interval not reached")
				continue
			}
		}

		items, stats, err := reg.crawler.Crawl(ctx)
		if stats == nil {
			stats = Stats{}
		}
		if err != nil {
			stats["errors"]++
			logging.Error().Err(err).Str("crawler", name).Msg("crawl failed")
		}
		if len(items) > 0 {
			if err := cc.pushItems(ctx, items); err != nil {
				stats["errors"]++
				logging.Error().Err(err).Str("crawler", name).Msg("raw queue push failed")
			}
		}

		cc.totals[name].Merge(stats)
		passStats[name] = stats
		reg.lastRun = cc.now()
		metrics.RecordScrape(name, stats.Items(), stats["errors"])

		logging.Info().
			Str("crawler", name).
			Int("items", stats.Items()).
			Int("errors", stats["errors"]).
			Msg("crawler finished")
	}

	if _, err := cc.trimmer.Trim(ctx); err != nil {
		logging.Warn().Err(err).Str("queue", cc.queue).Msg("raw queue trim failed")
	}

	return cc.publishCompletion(ctx, passStats)
}

// RunLoop repeats RunAll with a fixed sleep until the context is done.
func (cc *ControlCenter) RunLoop(ctx context.Context, interval time.Duration) error {
	for {
		if err := cc.RunAll(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logging.Error().Err(err).Msg("scrape pass failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// pushItems serializes and prepends items to the raw queue, stamping a
// unix timestamp on items that lack one so the age trim can see them.
func (cc *ControlCenter) pushItems(ctx context.Context, items []models.RawItem) error {
	values := make([]any, 0, len(items))
	for _, item := range items {
		if !item.Has("timestamp") {
			item["timestamp"] = float64(cc.now().Unix())
		}
		payload, err := json.Marshal(item)
		if err != nil {
			logging.Warn().Err(err).Msg("unserializable raw item dropped")
			continue
		}
		values = append(values, string(payload))
	}
	if len(values) == 0 {
		return nil
	}
	return cc.client.PushHead(ctx, cc.queue, values...)
}

func (cc *ControlCenter) publishCompletion(ctx context.Context, passStats map[string]Stats) error {
	var totalItems, totalErrors int
	bySource := make(map[string]any, len(passStats))
	for name, stats := range passStats {
		totalItems += stats.Items()
		totalErrors += stats["errors"]
		bySource[name] = map[string]int(stats)
	}

	length, err := cc.client.QueueLen(ctx, cc.queue)
	if err != nil {
		logging.Warn().Err(err).Msg("raw queue length unavailable")
	} else {
		metrics.UpdateQueueLength(cc.queue, length)
	}

	note := models.NewNotification(models.EventScrapeDone, map[string]any{
		"total_items":  totalItems,
		"total_errors": totalErrors,
		"queue_length": length,
		"by_source":    bySource,
	})
	if err := cc.notifier.Publish(ctx, note); err != nil {
		logging.Error().Err(err).Msg("scrape_done publish failed")
	}

	logging.Info().
		Int("total_items", totalItems).
		Int("total_errors", totalErrors).
		Int64("queue_length", length).
		Msg("scrape pass finished")
	return nil
}
