// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package cleaner

import (
	"context"
	"fmt"
	"time"

	"github.com/tickerwire/tickerwire/internal/config"
	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/store"
)

// IDCache is the cleaner's fingerprint memory. Two variants share one
// key: a plain set remembers forever (permanent mode), a sorted set
// scored by insertion time forgets entries older than the window
// (time-window mode).
type IDCache struct {
	client *store.Client
	key    string
	mode   string
	window time.Duration

	now func() time.Time
}

// NewIDCache builds the cache from configuration. Call Init before use.
func NewIDCache(client *store.Client, key string, cfg config.DedupConfig) *IDCache {
	return &IDCache{
		client: client,
		key:    key,
		mode:   cfg.Mode,
		window: cfg.Window(),
		now:    time.Now,
	}
}

// SetClock overrides the wall clock for tests.
func (c *IDCache) SetClock(now func() time.Time) { c.now = now }

// Mode returns the effective dedup mode after Init.
func (c *IDCache) Mode() string { return c.mode }

// Init reconciles the configured mode with the structure already stored
// under the key. An existing structure wins over configuration: a set is
// permanent, a sorted set is time-window, an absent key follows the
// configured mode (time-window when unset). With clearOnStart the key is
// deleted first, so configuration always applies.
func (c *IDCache) Init(ctx context.Context, clearOnStart bool) error {
	if clearOnStart {
		if err := c.client.Delete(ctx, c.key); err != nil {
			return fmt.Errorf("clear id cache: %w", err)
		}
		logging.Info().Str("key", c.key).Msg("id cache cleared on start")
	}

	keyType, err := c.client.KeyType(ctx, c.key)
	if err != nil {
		return fmt.Errorf("inspect id cache: %w", err)
	}
	switch keyType {
	case "set":
		c.mode = config.DedupPermanent
	case "zset":
		c.mode = config.DedupTimeWindow
	case "none":
		if c.mode == "" {
			c.mode = config.DedupTimeWindow
		}
	default:
		return fmt.Errorf("id cache key %s has unusable type %q", c.key, keyType)
	}

	return c.logStatus(ctx)
}

// logStatus emits the startup preamble: total cached fingerprints, split
// into valid and expired for the time-window variant.
func (c *IDCache) logStatus(ctx context.Context) error {
	if c.mode == config.DedupPermanent {
		total, err := c.client.SetCard(ctx, c.key)
		if err != nil {
			return err
		}
		logging.Info().
			Str("key", c.key).
			Str("mode", c.mode).
			Int64("cached", total).
			Msg("id cache ready")
		return nil
	}

	total, err := c.client.ZCard(ctx, c.key)
	if err != nil {
		return err
	}
	expired, err := c.client.ZCountBelow(ctx, c.key, c.cutoff())
	if err != nil {
		return err
	}
	logging.Info().
		Str("key", c.key).
		Str("mode", c.mode).
		Int64("valid", total-expired).
		Int64("expired", expired).
		Dur("window", c.window).
		Msg("id cache ready")
	return nil
}

// Seen reports whether the fingerprint is a duplicate. In time-window
// mode an entry whose score has aged past the window does not count; the
// item is fresh again and Add will rescore it.
func (c *IDCache) Seen(ctx context.Context, fingerprint string) (bool, error) {
	if c.mode == config.DedupPermanent {
		return c.client.SetContains(ctx, c.key, fingerprint)
	}
	score, ok, err := c.client.ZScore(ctx, c.key, fingerprint)
	if err != nil || !ok {
		return false, err
	}
	return score > c.cutoff(), nil
}

// Add records a fingerprint: set membership in permanent mode, current
// time as the score in time-window mode.
func (c *IDCache) Add(ctx context.Context, fingerprint string) error {
	if c.mode == config.DedupPermanent {
		return c.client.SetAdd(ctx, c.key, fingerprint)
	}
	return c.client.ZAdd(ctx, c.key, fingerprint, float64(c.now().Unix()))
}

// Sweep drops expired entries in time-window mode. A no-op for the
// permanent variant.
func (c *IDCache) Sweep(ctx context.Context) (int64, error) {
	if c.mode == config.DedupPermanent {
		return 0, nil
	}
	return c.client.ZRemRangeByScore(ctx, c.key, 0, c.cutoff())
}

func (c *IDCache) cutoff() float64 {
	return float64(c.now().Add(-c.window).Unix())
}
