// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package cleaner

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tickerwire/tickerwire/internal/config"
	"github.com/tickerwire/tickerwire/internal/fabric"
	"github.com/tickerwire/tickerwire/internal/models"
	"github.com/tickerwire/tickerwire/internal/retention"
	"github.com/tickerwire/tickerwire/internal/store"
)

func newTestCleaner(t *testing.T, client *store.Client, cfg *config.Config) *Cleaner {
	t.Helper()
	ctx := context.Background()
	cache := NewIDCache(client, cfg.Redis.IDCacheKey, cfg.Dedup)
	if err := cache.Init(ctx, false); err != nil {
		t.Fatal(err)
	}
	notifier := fabric.NewNotifier(client, "clean_done", true)
	trimmer := retention.NewTrimmer(client, cfg.Redis.Queue.Clean,
		cfg.Retention.MaxAge(), int64(cfg.Retention.MaxItems))
	return New(client, client, cache, notifier, trimmer, nil, cfg)
}

func push(t *testing.T, client *store.Client, queue string, items ...models.RawItem) {
	t.Helper()
	ctx := context.Background()
	for _, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			t.Fatal(err)
		}
		if err := client.PushHead(ctx, queue, string(payload)); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCleanerPass(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()

	t.Run("validates, dedups and normalizes", func(t *testing.T) {
		client := newTestClient(t)
		stage := newTestCleaner(t, client, cfg)

		push(t, client, cfg.Redis.Queue.Raw,
			models.RawItem{"id": "a1", "source": "reddit_post", "text": "NVDA rally", "timestamp": float64(time.Now().Unix())},
			models.RawItem{"id": "a1", "source": "reddit_post", "text": "NVDA rally again", "timestamp": float64(time.Now().Unix())},
			models.RawItem{"source": "rss"}, // no text: invalid
		)
		if err := client.PushHead(ctx, cfg.Redis.Queue.Raw, "{broken"); err != nil {
			t.Fatal(err)
		}

		if err := stage.Pass(ctx, models.Notification{}); err != nil {
			t.Fatal(err)
		}

		cleanLen, err := client.QueueLen(ctx, cfg.Redis.Queue.Clean)
		if err != nil {
			t.Fatal(err)
		}
		if cleanLen != 1 {
			t.Errorf("clean queue length = %d, want 1", cleanLen)
		}

		// Non-destructive read: the raw queue keeps all four entries.
		rawLen, err := client.QueueLen(ctx, cfg.Redis.Queue.Raw)
		if err != nil {
			t.Fatal(err)
		}
		if rawLen != 4 {
			t.Errorf("raw queue length = %d, want 4", rawLen)
		}

		entry, err := client.PeekTail(ctx, cfg.Redis.Queue.Clean)
		if err != nil {
			t.Fatal(err)
		}
		var clean models.CleanItem
		if err := json.Unmarshal([]byte(entry), &clean); err != nil {
			t.Fatal(err)
		}
		if clean.ID != "a1" {
			t.Errorf("clean item id = %q, want a1", clean.ID)
		}
		if clean.CleanedAt == "" || clean.CreatedAt == "" {
			t.Error("clean item missing required stamps")
		}
	})

	t.Run("reprocessing the raw queue is idempotent", func(t *testing.T) {
		client := newTestClient(t)
		stage := newTestCleaner(t, client, cfg)

		push(t, client, cfg.Redis.Queue.Raw,
			models.RawItem{"id": "b1", "source": "rss", "title": "Fed holds", "timestamp": float64(time.Now().Unix())},
		)

		if err := stage.Pass(ctx, models.Notification{}); err != nil {
			t.Fatal(err)
		}
		if err := stage.Pass(ctx, models.Notification{}); err != nil {
			t.Fatal(err)
		}

		cleanLen, _ := client.QueueLen(ctx, cfg.Redis.Queue.Clean)
		if cleanLen != 1 {
			t.Errorf("clean queue length after reprocess = %d, want 1", cleanLen)
		}
	})

	t.Run("post and its comments are distinct items", func(t *testing.T) {
		client := newTestClient(t)
		stage := newTestCleaner(t, client, cfg)

		// Comments carry their own id, so they never collapse into the
		// post they answer even though both reference t3_x.
		ts := float64(time.Now().Unix())
		push(t, client, cfg.Redis.Queue.Raw,
			models.RawItem{"id": "t3_x", "source": "reddit_post", "text": "the post", "timestamp": ts},
			models.RawItem{"id": "t1_y", "post_id": "t3_x", "source": "reddit_comment", "text": "a comment", "timestamp": ts},
			models.RawItem{"id": "t1_z", "post_id": "t3_x", "source": "reddit_comment", "text": "another comment", "timestamp": ts},
		)

		if err := stage.Pass(ctx, models.Notification{}); err != nil {
			t.Fatal(err)
		}

		cleanLen, _ := client.QueueLen(ctx, cfg.Redis.Queue.Clean)
		if cleanLen != 3 {
			t.Errorf("clean queue length = %d, want 3", cleanLen)
		}
	})

	t.Run("publishes clean_done with pass statistics", func(t *testing.T) {
		client := newTestClient(t)
		stage := newTestCleaner(t, client, cfg)

		sub := client.Subscribe(ctx, "clean_done")
		defer sub.Close()
		if _, err := sub.Receive(ctx); err != nil {
			t.Fatal(err)
		}

		push(t, client, cfg.Redis.Queue.Raw,
			models.RawItem{"id": "c1", "source": "rss", "title": "headline", "timestamp": float64(time.Now().Unix())},
		)
		if err := stage.Pass(ctx, models.Notification{}); err != nil {
			t.Fatal(err)
		}

		msg, err := sub.ReceiveTimeout(ctx, time.Second)
		if err != nil {
			t.Fatal(err)
		}
		m, ok := msg.(*redis.Message)
		if !ok {
			t.Fatalf("unexpected message type %T", msg)
		}
		var note models.Notification
		if err := json.Unmarshal([]byte(m.Payload), &note); err != nil {
			t.Fatal(err)
		}
		if note.Event != models.EventCleanDone {
			t.Errorf("event = %q", note.Event)
		}
		if note.Statistics["cleaned"] != float64(1) {
			t.Errorf("cleaned = %v, want 1", note.Statistics["cleaned"])
		}
		if note.CorrelationID == "" {
			t.Error("notification missing correlation id")
		}
	})
}
