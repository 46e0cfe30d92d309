// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

// Package store wraps the shared Redis store. Each stage opens one Client
// per logical database it touches; queues are lists, the id cache is a
// set or sorted set, and analytics snapshots are TTL'd string keys.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tickerwire/tickerwire/internal/config"
)

// Client is a thin wrapper over one logical Redis database.
type Client struct {
	rdb *redis.Client
	db  int
}

// Dial connects to the configured store and verifies the connection with
// a ping. A failed ping is a fatal startup condition for every stage.
func Dial(ctx context.Context, cfg *config.RedisConfig, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed (db %d): %w", db, err)
	}
	return &Client{rdb: rdb, db: db}, nil
}

// NewWithRedis wraps an existing go-redis client. Used by tests running
// against miniredis.
func NewWithRedis(rdb *redis.Client, db int) *Client {
	return &Client{rdb: rdb, db: db}
}

// DB returns the logical database index this client is bound to.
func (c *Client) DB() int { return c.db }

// Close tears down the connection pool.
func (c *Client) Close() error { return c.rdb.Close() }

// ---- queue (list) operations -------------------------------------------

// QueueLen returns the length of a list queue.
func (c *Client) QueueLen(ctx context.Context, key string) (int64, error) {
	return c.rdb.LLen(ctx, key).Result()
}

// QueueRange reads entries [start, stop] by index without removing them.
// Non-destructive reads are the consumer contract for every queue.
func (c *Client) QueueRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return c.rdb.LRange(ctx, key, start, stop).Result()
}

// PushHead prepends entries to the queue head (newest-at-head layout).
func (c *Client) PushHead(ctx context.Context, key string, values ...any) error {
	return c.rdb.LPush(ctx, key, values...).Err()
}

// PushTail appends entries to the queue tail.
func (c *Client) PushTail(ctx context.Context, key string, values ...any) error {
	return c.rdb.RPush(ctx, key, values...).Err()
}

// PeekTail returns the oldest entry without removing it, or "" when the
// queue is empty.
func (c *Client) PeekTail(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.LIndex(ctx, key, -1).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

// PopTail removes and returns the oldest entry.
func (c *Client) PopTail(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.RPop(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

// TrimToNewest keeps only the newest max entries (head side).
func (c *Client) TrimToNewest(ctx context.Context, key string, max int64) error {
	return c.rdb.LTrim(ctx, key, 0, max-1).Err()
}

// RemoveOne deletes the first occurrence of value from the queue.
func (c *Client) RemoveOne(ctx context.Context, key, value string) error {
	return c.rdb.LRem(ctx, key, 1, value).Err()
}

// Delete removes a key entirely.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// ---- id cache primitives ------------------------------------------------

// KeyType reports the structural type of a key: "set", "zset", "list",
// "string", or "none" when absent.
func (c *Client) KeyType(ctx context.Context, key string) (string, error) {
	return c.rdb.Type(ctx, key).Result()
}

// SetAdd adds a member to an unordered set.
func (c *Client) SetAdd(ctx context.Context, key, member string) error {
	return c.rdb.SAdd(ctx, key, member).Err()
}

// SetContains tests set membership.
func (c *Client) SetContains(ctx context.Context, key, member string) (bool, error) {
	return c.rdb.SIsMember(ctx, key, member).Result()
}

// SetCard returns the set cardinality.
func (c *Client) SetCard(ctx context.Context, key string) (int64, error) {
	return c.rdb.SCard(ctx, key).Result()
}

// ZScore returns a sorted-set member's score; ok is false when absent.
func (c *Client) ZScore(ctx context.Context, key, member string) (float64, bool, error) {
	score, err := c.rdb.ZScore(ctx, key, member).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

// ZAdd inserts or updates a member with the given score.
func (c *Client) ZAdd(ctx context.Context, key, member string, score float64) error {
	return c.rdb.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
}

// ZRemRangeByScore removes members with scores in [min, max].
func (c *Client) ZRemRangeByScore(ctx context.Context, key string, min, max float64) (int64, error) {
	return c.rdb.ZRemRangeByScore(ctx, key,
		fmt.Sprintf("%f", min), fmt.Sprintf("%f", max)).Result()
}

// ZCard returns the sorted-set cardinality.
func (c *Client) ZCard(ctx context.Context, key string) (int64, error) {
	return c.rdb.ZCard(ctx, key).Result()
}

// ZCountBelow counts members with score <= max.
func (c *Client) ZCountBelow(ctx context.Context, key string, max float64) (int64, error) {
	return c.rdb.ZCount(ctx, key, "0", fmt.Sprintf("%f", max)).Result()
}

// ---- snapshot (string) keys ---------------------------------------------

// SetString writes a string key with a TTL. ttl <= 0 means no expiry.
func (c *Client) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// GetString reads a string key; ok is false when the key is absent.
func (c *Client) GetString(ctx context.Context, key string) (string, bool, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// ScanKeys returns all keys matching pattern. SCAN is used instead of
// KEYS so a large analytics DB does not block the store.
func (c *Client) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := c.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// ---- pipeline ------------------------------------------------------------

// QueueRewrite applies a batch of removals and appends through one
// non-transactional pipeline. Rewritten entries move to the queue tail;
// callers that care about ordering must use per-item rewrites instead.
func (c *Client) QueueRewrite(ctx context.Context, key string, remove, add []string) error {
	if len(remove) == 0 && len(add) == 0 {
		return nil
	}
	pipe := c.rdb.Pipeline()
	for _, v := range remove {
		pipe.LRem(ctx, key, 1, v)
	}
	if len(add) > 0 {
		vals := make([]any, len(add))
		for i, v := range add {
			vals[i] = v
		}
		pipe.RPush(ctx, key, vals...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// ---- pub/sub --------------------------------------------------------------

// Publish sends a payload to a channel and returns the subscriber count.
// The count is observability only; delivery is fire-and-forget.
func (c *Client) Publish(ctx context.Context, channel, payload string) (int64, error) {
	return c.rdb.Publish(ctx, channel, payload).Result()
}

// Subscribe opens a subscription on the given channel.
func (c *Client) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	return c.rdb.Subscribe(ctx, channel)
}
