// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package retention

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tickerwire/tickerwire/internal/store"
)

const queue = "raw_queue"

func newTestClient(t *testing.T) *store.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	client := store.NewWithRedis(rdb, 0)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// entry renders a queue record with a unix timestamp aged by the given
// offset from the fixed test clock.
func entry(now time.Time, age time.Duration, tag string) string {
	return fmt.Sprintf(`{"timestamp":%d,"source":"rss","text":"%s"}`, now.Add(-age).Unix(), tag)
}

func TestTrimByAge(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("removes aged tail entries only", func(t *testing.T) {
		client := newTestClient(t)
		tr := NewTrimmer(client, queue, 24*time.Hour, 1000)
		tr.SetClock(func() time.Time { return now })

		// Oldest at the tail: push aged entries first.
		for _, e := range []string{
			entry(now, 30*time.Hour, "stale-1"),
			entry(now, 25*time.Hour, "stale-2"),
			entry(now, 2*time.Hour, "fresh-1"),
			entry(now, time.Hour, "fresh-2"),
		} {
			if err := client.PushHead(ctx, queue, e); err != nil {
				t.Fatal(err)
			}
		}

		res, err := tr.Trim(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if res.Removed != 2 {
			t.Errorf("Removed = %d, want 2", res.Removed)
		}
		if res.Remaining != 2 {
			t.Errorf("Remaining = %d, want 2", res.Remaining)
		}

		// Idempotence: a second run removes nothing.
		res, err = tr.Trim(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if res.Removed != 0 {
			t.Errorf("second run Removed = %d, want 0", res.Removed)
		}
	})

	t.Run("invalid json is removed and scan continues", func(t *testing.T) {
		client := newTestClient(t)
		tr := NewTrimmer(client, queue, 24*time.Hour, 1000)
		tr.SetClock(func() time.Time { return now })

		for _, e := range []string{
			entry(now, 30*time.Hour, "stale"),
			"{not json at all",
			entry(now, time.Hour, "fresh"),
		} {
			if err := client.PushHead(ctx, queue, e); err != nil {
				t.Fatal(err)
			}
		}

		res, err := tr.Trim(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if res.Removed != 2 {
			t.Errorf("Removed = %d, want 2 (stale + blob)", res.Removed)
		}
		if res.Remaining != 1 {
			t.Errorf("Remaining = %d, want 1", res.Remaining)
		}
	})

	t.Run("missing timestamp stops the scan conservatively", func(t *testing.T) {
		client := newTestClient(t)
		tr := NewTrimmer(client, queue, 24*time.Hour, 1000)
		tr.SetClock(func() time.Time { return now })

		// The aged entry sits behind a timestamp-less record; both stay.
		for _, e := range []string{
			`{"source":"rss","text":"no timestamp"}`,
			entry(now, 48*time.Hour, "stale-but-shielded"),
		} {
			if err := client.PushHead(ctx, queue, e); err != nil {
				t.Fatal(err)
			}
		}

		res, err := tr.Trim(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if res.Removed != 0 {
			t.Errorf("Removed = %d, want 0", res.Removed)
		}
		if res.Remaining != 2 {
			t.Errorf("Remaining = %d, want 2", res.Remaining)
		}
	})

	t.Run("iso string timestamps parse", func(t *testing.T) {
		client := newTestClient(t)
		tr := NewTrimmer(client, queue, 24*time.Hour, 1000)
		tr.SetClock(func() time.Time { return now })

		stale := fmt.Sprintf(`{"timestamp":"%s","text":"x"}`, now.Add(-30*time.Hour).Format(time.RFC3339))
		if err := client.PushHead(ctx, queue, stale); err != nil {
			t.Fatal(err)
		}

		res, err := tr.Trim(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if res.Removed != 1 {
			t.Errorf("Removed = %d, want 1", res.Removed)
		}
	})
}

func TestTrimSizeBackstop(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	client := newTestClient(t)

	tr := NewTrimmer(client, queue, 24*time.Hour, 3)
	tr.SetClock(func() time.Time { return now })

	// Five fresh entries; age trim removes nothing, size backstop keeps
	// the newest three.
	for i := range 5 {
		if err := client.PushHead(ctx, queue, entry(now, time.Duration(i)*time.Minute, fmt.Sprintf("e%d", i))); err != nil {
			t.Fatal(err)
		}
	}

	res, err := tr.Trim(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Removed != 2 {
		t.Errorf("Removed = %d, want 2", res.Removed)
	}
	if res.Remaining != 3 {
		t.Errorf("Remaining = %d, want 3", res.Remaining)
	}

	entries, err := client.QueueRange(ctx, queue, 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	// Newest three survive at the head.
	if len(entries) != 3 {
		t.Fatalf("queue = %v", entries)
	}
}
