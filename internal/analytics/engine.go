// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

// Package analytics implements the third pipeline stage: on each clean
// completion, read the full clean queue, fill missing sentiment labels
// through the oracle, compute windowed trend analytics and publish the
// snapshot sections as TTL'd store keys.
package analytics

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
	"github.com/tickerwire/tickerwire/internal/store"
)

// Engine runs analytics passes over the clean queue.
type Engine struct {
	clean    *store.Client
	output   *store.Client
	oracle   SentimentOracle
	updater  *Updater
	notifier *fabric.Notifier

	queue     string
	cfg       config.AnalyticsConfig
	sentiment config.SentimentConfig

	now func() time.Time
}

// New assembles an engine. The oracle may be nil when sentiment filling
// is disabled.
func New(clean, output *store.Client, oracle SentimentOracle, updater *Updater,
	notifier *fabric.Notifier, cfg *config.Config) *Engine {
	return &Engine{
		clean:     clean,
		output:    output,
		oracle:    oracle,
		updater:   updater,
		notifier:  notifier,
		queue:     cfg.Redis.Queue.Clean,
		cfg:       cfg.Analytics,
		sentiment: cfg.Sentiment,
		now:       time.Now,
	}
}

// SetClock overrides the wall clock for tests.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// Pass produces one snapshot. An empty clean queue produces nothing: the
// previous snapshot keys keep serving until their TTL runs out.
func (e *Engine) Pass(ctx context.Context, _ models.Notification) error {
	start := e.now()

	records, skipped, err := e.loadRecords(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		logging.Warn().Msg("clean queue empty, snapshot skipped")
		return nil
	}
	logging.Info().
		Int("records", len(records)).
		Int("skipped", skipped).
		Msg("analytics ingress loaded")

	if e.sentiment.Enabled && e.oracle != nil {
		if err := e.fillSentiments(ctx, records); err != nil {
			logging.Warn().Err(err).Msg("sentiment filling incomplete")
		}
	}

	windows := ComputeWindows(records,
		time.Duration(e.cfg.CurrentWindowMinutes)*time.Minute,
		time.Duration(e.cfg.HistoryHours)*time.Hour,
		e.now())

	var currentTexts []string
	var history []Record
	for i := range records {
		if windows.InCurrent(records[i].CreatedAt) {
			currentTexts = append(currentTexts, records[i].CleanText)
		}
		if windows.InHistory(records[i].CreatedAt) {
			history = append(history, records[i])
		}
	}

	// The cloud list is the wider cut; trending ranks its head.
	current := extractKeywords(currentTexts, e.cfg.WordCloudCount)
	trending := trendingKeywords(current, e.cfg.TrendingKeywordsCount, records, history)

	topWords := make([]string, len(trending))
	for i, t := range trending {
		topWords[i] = t.Keyword
	}
	series := historySeries(topWords, records, windows)
	cloud := wordCloud(current, e.cfg.WordCloudCount)
	feed := newsFeed(records, e.cfg.NewsFeedCount)

	meta := models.SnapshotMetadata{
		Timestamp:      e.now().UTC().Format("2006-01-02 15:04:05"),
		UpdateInterval: e.cfg.CurrentWindowMinutes,
		DataVersion:    "1.0",
		NewsSources:    newsSources(records),
		PublishTime:    models.FormatUTC(e.now()),
	}

	if err := e.emit(ctx, meta, trending, cloud, feed, series); err != nil {
		return err
	}
	metrics.RecordSnapshot(len(trending), len(series))

	note := models.NewNotification(models.EventAnalyticsDone, map[string]any{
		"keywords_count": len(trending),
		"history_count":  len(series),
	})
	if err := e.notifier.Publish(ctx, note); err != nil {
		logging.Error().Err(err).Msg("analytics_done publish failed")
	}

	logging.Info().
		Int("trending", len(trending)).
		Int("word_cloud", len(cloud)).
		Int("news_feed", len(feed)).
		Dur("elapsed", e.now().Sub(start)).
		Msg("analytics pass finished")
	return nil
}

func (e *Engine) loadRecords(ctx context.Context) ([]Record, int, error) {
	entries, err := e.clean.QueueRange(ctx, e.queue, 0, -1)
	if err != nil {
		return nil, 0, fmt.Errorf("read clean queue: %w", err)
	}
	records := make([]Record, 0, len(entries))
	skipped := 0
	now := e.now()
	for _, entry := range entries {
		rec, ok := ParseRecord(entry, now)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

// fillSentiments batches unlabeled records through the oracle, patches
// the in-memory records and writes the labels back to the queue.
func (e *Engine) fillSentiments(ctx context.Context, records []Record) error {
	var missing []int
	for i := range records {
		if records[i].Sentiment == "" {
			missing = append(missing, i)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	logging.Info().
		Int("missing", len(missing)).
		Str("oracle", e.oracle.Name()).
		Msg("filling missing sentiment labels")

	updates := make(map[string]string)
	batchSize := e.sentiment.BatchSize
	for from := 0; from < len(missing); from += batchSize {
		to := from + batchSize
		if to > len(missing) {
			to = len(missing)
		}
		batch := missing[from:to]

		texts := make([]string, len(batch))
		for i, idx := range batch {
			texts[i] = records[idx].Text
		}
		labels, err := e.oracle.PredictBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("oracle batch at %d: %w", from, err)
		}
		for i, idx := range batch {
			if labels[i] == "" {
				continue
			}
			records[idx].Sentiment = labels[i]
			if records[idx].ID != "" {
				updates[records[idx].ID] = labels[i]
			}
			if !e.sentiment.DeferWriteBack && records[idx].ID != "" {
				if _, err := e.updater.ApplyImmediate(ctx, records[idx].ID, labels[i]); err != nil {
					logging.Warn().Err(err).Str("id", records[idx].ID).Msg("immediate write-back failed")
				}
			}
		}
	}

	if e.sentiment.DeferWriteBack {
		wb, err := e.updater.ApplyDeferred(ctx, updates)
		if err != nil {
			return err
		}
		metrics.RecordWriteBack(wb.Updated, wb.NotFound)
	}
	return nil
}

// emit serializes each snapshot section under its own key with the
// configured TTL. Single-key writes keep each section atomic to readers.
func (e *Engine) emit(ctx context.Context, meta models.SnapshotMetadata,
	trending []models.TrendingKeyword, cloud []models.WordCloudEntry,
	feed []models.NewsItem, series map[string][]models.HistoryPoint) error {

	ttl := e.cfg.KeyTTL()
	sections := []struct {
		suffix string
		value  any
	}{
		{"metadata", &meta},
		{"trending_keywords", trending},
		{"word_cloud", cloud},
		{"news_feed", feed},
	}
	for _, s := range sections {
		if err := e.writeKey(ctx, e.cfg.KeyPrefix+":"+s.suffix, s.value, ttl); err != nil {
			return err
		}
	}
	for keyword, points := range series {
		key := e.cfg.KeyPrefix + ":history_data:" + keyword
		if err := e.writeKey(ctx, key, points, ttl); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) writeKey(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := e.output.SetString(ctx, key, string(payload), ttl); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
