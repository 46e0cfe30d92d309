// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	t.Run("defaults validate", func(t *testing.T) {
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() = %v", err)
		}
	})

	t.Run("pipeline defaults", func(t *testing.T) {
		if cfg.Redis.DB.Scrape != 0 || cfg.Redis.DB.Clean != 1 || cfg.Redis.DB.Analytics != 2 {
			t.Errorf("db indices = %+v", cfg.Redis.DB)
		}
		if cfg.Redis.Queue.Raw != "raw_queue" || cfg.Redis.Queue.Clean != "clean_data_queue" {
			t.Errorf("queues = %+v", cfg.Redis.Queue)
		}
		if cfg.Dedup.Mode != DedupTimeWindow || cfg.Dedup.WindowHours != 24 {
			t.Errorf("dedup = %+v", cfg.Dedup)
		}
		if cfg.Analytics.CurrentWindowMinutes != 60 || cfg.Analytics.HistoryHours != 24 {
			t.Errorf("analytics windows = %+v", cfg.Analytics)
		}
		if cfg.Analytics.KeyPrefix != "processed_data" {
			t.Errorf("key prefix = %q", cfg.Analytics.KeyPrefix)
		}
		if cfg.Retention.Hours != 24 || cfg.Retention.MaxItems != 10000 {
			t.Errorf("retention = %+v", cfg.Retention)
		}
	})

	t.Run("duration helpers", func(t *testing.T) {
		if got := cfg.Dedup.Window(); got != 24*time.Hour {
			t.Errorf("Window() = %v", got)
		}
		if got := cfg.Retention.MaxAge(); got != 24*time.Hour {
			t.Errorf("MaxAge() = %v", got)
		}
		if got := cfg.Analytics.KeyTTL(); got != 24*time.Hour {
			t.Errorf("KeyTTL() = %v", got)
		}
		if got := cfg.Redis.RedisAddr(); got != "localhost:6379" {
			t.Errorf("RedisAddr() = %q", got)
		}
	})
}

func TestValidate(t *testing.T) {
	t.Run("rejects colliding queues in the same db", func(t *testing.T) {
		cfg := Default()
		cfg.Redis.Queue.Clean = cfg.Redis.Queue.Raw
		cfg.Redis.DB.Clean = cfg.Redis.DB.Scrape
		if err := cfg.Validate(); err == nil {
			t.Error("expected a collision error")
		}
	})

	t.Run("same queue name in different dbs is allowed", func(t *testing.T) {
		cfg := Default()
		cfg.Redis.Queue.Clean = cfg.Redis.Queue.Raw
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})

	t.Run("rejects an out-of-range db index", func(t *testing.T) {
		cfg := Default()
		cfg.Redis.DB.Analytics = 16
		if err := cfg.Validate(); err == nil {
			t.Error("expected a range error")
		}
	})

	t.Run("rejects an unknown dedup mode", func(t *testing.T) {
		cfg := Default()
		cfg.Dedup.Mode = "sometimes"
		if err := cfg.Validate(); err == nil {
			t.Error("expected a mode error")
		}
	})

	t.Run("rejects a zero retention", func(t *testing.T) {
		cfg := Default()
		cfg.Retention.Hours = 0
		if err := cfg.Validate(); err == nil {
			t.Error("expected a retention error")
		}
	})
}

func TestEnvTransform(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"TICKERWIRE_REDIS_HOST", "redis.host"},
		{"TICKERWIRE_REDIS_DB_CLEAN", "redis.db.clean"},
		{"TICKERWIRE_REDIS_QUEUE_RAW", "redis.queue.raw"},
		{"TICKERWIRE_REDIS_IDCACHE_KEY", "redis.idcache_key"},
		{"TICKERWIRE_NOTIFICATION_LISTEN_POLL_INTERVAL", "notification.listen.poll_interval"},
		{"TICKERWIRE_NOTIFICATION_SEND_CHANNEL", "notification.send.channel"},
		{"TICKERWIRE_DEDUPLICATION_WINDOW_HOURS", "deduplication.window_hours"},
		{"TICKERWIRE_SENTIMENT_BATCH_SIZE", "sentiment.batch_size"},
		{"TICKERWIRE_ANALYTICS_TRENDING_KEYWORDS_COUNT", "analytics.trending_keywords_count"},
		{"TICKERWIRE_SERVER_CORS_ORIGINS", "server.cors_origins"},
		{"TICKERWIRE_LOGGING_LEVEL", "logging.level"},
		{"TICKERWIRE_UNRELATED", "unrelated"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := envTransform(tc.in); got != tc.want {
				t.Errorf("envTransform(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	// Keep ambient config files out of the way.
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("TICKERWIRE_REDIS_HOST", "redis.internal")
		t.Setenv("TICKERWIRE_REDIS_DB_CLEAN", "5")
		t.Setenv("TICKERWIRE_SENTIMENT_BATCH_SIZE", "64")
		t.Setenv("TICKERWIRE_DEDUPLICATION_MODE", DedupPermanent)

		cfg, err := Load()
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Redis.Host != "redis.internal" {
			t.Errorf("host = %q", cfg.Redis.Host)
		}
		if cfg.Redis.DB.Clean != 5 {
			t.Errorf("clean db = %d", cfg.Redis.DB.Clean)
		}
		if cfg.Sentiment.BatchSize != 64 {
			t.Errorf("batch size = %d", cfg.Sentiment.BatchSize)
		}
		if cfg.Dedup.Mode != DedupPermanent {
			t.Errorf("dedup mode = %q", cfg.Dedup.Mode)
		}
		// Untouched sections keep defaults.
		if cfg.Analytics.WordCloudCount != 20 {
			t.Errorf("word cloud count = %d", cfg.Analytics.WordCloudCount)
		}
	})

	t.Run("cors origins split on commas", func(t *testing.T) {
		t.Setenv("TICKERWIRE_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

		cfg, err := Load()
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"https://a.example", "https://b.example"}
		if len(cfg.Server.CORSOrigins) != len(want) {
			t.Fatalf("origins = %v", cfg.Server.CORSOrigins)
		}
		for i := range want {
			if cfg.Server.CORSOrigins[i] != want[i] {
				t.Errorf("origins[%d] = %q, want %q", i, cfg.Server.CORSOrigins[i], want[i])
			}
		}
	})

	t.Run("config file sits between defaults and environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		doc := "redis:\n  host: from-file\n  port: 6380\nlogging:\n  level: debug\n"
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
		t.Setenv(ConfigPathEnvVar, path)
		t.Setenv("TICKERWIRE_REDIS_HOST", "from-env")

		cfg, err := Load()
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Redis.Host != "from-env" {
			t.Errorf("host = %q, want the env layer to win", cfg.Redis.Host)
		}
		if cfg.Redis.Port != 6380 {
			t.Errorf("port = %d, want the file layer", cfg.Redis.Port)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("level = %q", cfg.Logging.Level)
		}
	})

	t.Run("invalid environment value fails validation", func(t *testing.T) {
		t.Setenv("TICKERWIRE_REDIS_DB_SCRAPE", "42")
		if _, err := Load(); err == nil {
			t.Error("expected a validation error")
		}
	})
}
