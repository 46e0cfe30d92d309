// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tickerwire/tickerwire/internal/config"
	"github.com/tickerwire/tickerwire/internal/fabric"
	"github.com/tickerwire/tickerwire/internal/models"
	"github.com/tickerwire/tickerwire/internal/store"
)

func newTestEngine(t *testing.T, client *store.Client, cfg *config.Config) *Engine {
	t.Helper()
	notifier := fabric.NewNotifier(client, "analytics_done", true)
	updater := NewUpdater(client, cfg.Redis.Queue.Clean)
	return New(client, client, HeuristicOracle{}, updater, notifier, cfg)
}

func cleanEntry(id, text, sentiment string, at time.Time) string {
	payload, _ := json.Marshal(map[string]any{
		"id":         id,
		"text":       text,
		"sentiment":  sentiment,
		"source":     "rss",
		"created_at": models.FormatUTC(at),
	})
	return string(payload)
}

func readSection(t *testing.T, client *store.Client, key string, into any) {
	t.Helper()
	payload, ok, err := client.GetString(context.Background(), key)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("snapshot key %s missing", key)
	}
	if err := json.Unmarshal([]byte(payload), into); err != nil {
		t.Fatalf("corrupt section %s: %v", key, err)
	}
}

func TestEnginePass(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	cfg := config.Default()
	cfg.Redis.Queue.Clean = cleanQueue
	prefix := cfg.Analytics.KeyPrefix

	t.Run("publishes every snapshot section", func(t *testing.T) {
		client := newTestClient(t)
		engine := newTestEngine(t, client, cfg)
		engine.SetClock(func() time.Time { return now })

		seedQueue(t, client,
			cleanEntry("1", "nvda rally continues strongly", "Bullish", now.Add(-10*time.Minute)),
			cleanEntry("2", "nvda earnings blowout quarter", "Bullish", now.Add(-20*time.Minute)),
			cleanEntry("3", "tsla recall weighs heavily", "Bearish", now.Add(-30*time.Minute)),
			cleanEntry("4", "nvda mentioned here earlier", "Bullish", now.Add(-5*time.Hour)),
		)

		if err := engine.Pass(ctx, models.Notification{}); err != nil {
			t.Fatal(err)
		}

		var meta models.SnapshotMetadata
		readSection(t, client, prefix+":metadata", &meta)
		if meta.DataVersion != "1.0" {
			t.Errorf("data_version = %q", meta.DataVersion)
		}
		if meta.Timestamp != "2026-03-15 12:00:00" {
			t.Errorf("timestamp = %q", meta.Timestamp)
		}
		if meta.UpdateInterval != cfg.Analytics.CurrentWindowMinutes {
			t.Errorf("update_interval = %d", meta.UpdateInterval)
		}
		if meta.NewsSources["rss"] != 4 {
			t.Errorf("news_sources = %v", meta.NewsSources)
		}

		var trending []models.TrendingKeyword
		readSection(t, client, prefix+":trending_keywords", &trending)
		if len(trending) == 0 {
			t.Fatal("no trending keywords")
		}
		if trending[0].Keyword != "nvda" || trending[0].Rank != 1 {
			t.Errorf("top keyword = %+v", trending[0])
		}

		var cloud []models.WordCloudEntry
		readSection(t, client, prefix+":word_cloud", &cloud)
		if len(cloud) == 0 {
			t.Error("empty word cloud")
		}

		var feed []models.NewsItem
		readSection(t, client, prefix+":news_feed", &feed)
		if len(feed) != 4 {
			t.Errorf("news feed length = %d", len(feed))
		}
		if feed[0].Title != "nvda rally continues strongly" {
			t.Errorf("feed[0] = %q, want newest first", feed[0].Title)
		}

		// Each trending keyword gets a 24-point history series.
		for _, kw := range trending {
			var points []models.HistoryPoint
			readSection(t, client, fmt.Sprintf("%s:history_data:%s", prefix, kw.Keyword), &points)
			if len(points) != 24 {
				t.Errorf("history %s has %d points, want 24", kw.Keyword, len(points))
			}
		}
	})

	t.Run("empty queue skips the snapshot", func(t *testing.T) {
		client := newTestClient(t)
		engine := newTestEngine(t, client, cfg)
		engine.SetClock(func() time.Time { return now })

		if err := engine.Pass(ctx, models.Notification{}); err != nil {
			t.Fatal(err)
		}
		_, ok, err := client.GetString(ctx, prefix+":metadata")
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Error("snapshot written for an empty queue")
		}
	})

	t.Run("oracle fills missing sentiment and writes back", func(t *testing.T) {
		client := newTestClient(t)
		engine := newTestEngine(t, client, cfg)
		engine.SetClock(func() time.Time { return now })

		seedQueue(t, client,
			cleanEntry("u1", "time to buy the rally going long", "", now.Add(-10*time.Minute)),
			cleanEntry("u2", "crash incoming sell and dump", "", now.Add(-15*time.Minute)),
		)

		if err := engine.Pass(ctx, models.Notification{}); err != nil {
			t.Fatal(err)
		}

		byID := queueByID(t, client)
		if byID["u1"]["sentiment"] != models.SentimentBullish {
			t.Errorf("u1 sentiment = %v", byID["u1"]["sentiment"])
		}
		if byID["u2"]["sentiment"] != models.SentimentBearish {
			t.Errorf("u2 sentiment = %v", byID["u2"]["sentiment"])
		}
	})

	t.Run("snapshot keys carry the configured ttl", func(t *testing.T) {
		client := newTestClient(t)
		engine := newTestEngine(t, client, cfg)
		engine.SetClock(func() time.Time { return now })

		seedQueue(t, client,
			cleanEntry("1", "nvda something", "Bullish", now.Add(-10*time.Minute)),
		)
		if err := engine.Pass(ctx, models.Notification{}); err != nil {
			t.Fatal(err)
		}

		// Written with a TTL: readable now, absent after expiry is covered
		// by the store tests; here just confirm the key exists.
		_, ok, err := client.GetString(ctx, prefix+":metadata")
		if err != nil || !ok {
			t.Fatalf("metadata key: ok=%v err=%v", ok, err)
		}
	})
}
