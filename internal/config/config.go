// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

// Package config loads and validates the pipeline configuration.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, optional YAML config file,
// built-in defaults. Every stage binary consumes the same document and
// picks the sections it needs.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Dedup modes for the cleaner's id cache.
const (
	DedupPermanent  = "permanent"
	DedupTimeWindow = "time_window"
)

// Worker run modes for the clean and analyze stages.
const (
	ModeEventDriven = "event_driven"
	ModeContinuous  = "continuous"
	ModeOnce        = "once"
)

// Config is the root configuration document.
type Config struct {
	Redis        RedisConfig        `koanf:"redis"`
	Notification NotificationConfig `koanf:"notification"`
	Dedup        DedupConfig        `koanf:"deduplication"`
	Analytics    AnalyticsConfig    `koanf:"analytics"`
	Sentiment    SentimentConfig    `koanf:"sentiment"`
	Retention    RetentionConfig    `koanf:"retention"`
	Scraper      ScraperConfig      `koanf:"scraper"`
	Server       ServerConfig       `koanf:"server"`
	Export       ExportConfig       `koanf:"export"`
	Logging      LoggingConfig      `koanf:"logging"`
}

// RedisConfig addresses the shared store. DB indices select the logical
// databases owned by each stage.
type RedisConfig struct {
	Host     string      `koanf:"host" validate:"required"`
	Port     int         `koanf:"port" validate:"gt=0,lte=65535"`
	Password string      `koanf:"password"`
	DB       DBConfig    `koanf:"db"`
	Queue    QueueConfig `koanf:"queue"`
	// IDCacheKey is the cleaner's fingerprint cache key.
	IDCacheKey string `koanf:"idcache_key" validate:"required"`
}

// DBConfig holds the logical database indices.
type DBConfig struct {
	Scrape    int `koanf:"scrape" validate:"gte=0,lte=15"`
	Clean     int `koanf:"clean" validate:"gte=0,lte=15"`
	Analytics int `koanf:"analytics" validate:"gte=0,lte=15"`
}

// QueueConfig holds the list key names. Queue names are configuration,
// not constants: deployments have run the clean queue both as
// clean_data_queue and financial_news_queue.
type QueueConfig struct {
	Raw   string `koanf:"raw" validate:"required"`
	Clean string `koanf:"clean" validate:"required"`
}

// NotificationConfig wires the completion-notification plane.
type NotificationConfig struct {
	Listen ListenConfig `koanf:"listen"`
	Send   SendConfig   `koanf:"send"`
}

// ListenConfig controls how a stage receives its upstream trigger.
type ListenConfig struct {
	Enabled bool   `koanf:"enabled"`
	Channel string `koanf:"channel"`
	// Mode selects event_driven, continuous or once; the CLI flag
	// overrides it.
	Mode string `koanf:"mode" validate:"omitempty,oneof=event_driven continuous once"`
	// PollInterval is the fallback cadence when notifications are
	// disabled or mode is continuous.
	PollInterval time.Duration `koanf:"poll_interval"`
}

// SendConfig controls the completion notification a stage publishes.
type SendConfig struct {
	Enabled bool   `koanf:"enabled"`
	Channel string `koanf:"channel"`
}

// DedupConfig selects the cleaner's fingerprint cache variant.
type DedupConfig struct {
	Mode         string `koanf:"mode" validate:"oneof=permanent time_window"`
	WindowHours  int    `koanf:"window_hours" validate:"gt=0"`
	ClearOnStart bool   `koanf:"clear_on_start"`
	// BatchSize is the LRANGE batch for the single-pass cleaner.
	BatchSize int `koanf:"batch_size" validate:"gt=0"`
}

// AnalyticsConfig tunes the windowed analytics engine.
type AnalyticsConfig struct {
	CurrentWindowMinutes  int    `koanf:"current_window_minutes" validate:"gt=0"`
	HistoryHours          int    `koanf:"history_hours" validate:"gt=0"`
	TrendingKeywordsCount int    `koanf:"trending_keywords_count" validate:"gt=0"`
	WordCloudCount        int    `koanf:"word_cloud_count" validate:"gt=0"`
	NewsFeedCount         int    `koanf:"news_feed_count" validate:"gt=0"`
	KeyPrefix             string `koanf:"key_prefix" validate:"required"`
	KeyTTLSeconds         int    `koanf:"key_ttl_seconds" validate:"gt=0"`
}

// SentimentConfig wires the sentiment oracle.
type SentimentConfig struct {
	Enabled             bool `koanf:"enabled"`
	BatchSize           int  `koanf:"batch_size" validate:"gt=0"`
	DeferWriteBack      bool `koanf:"defer_write_back"`
	FallbackToHeuristic bool `koanf:"fallback_to_heuristic"`
}

// RetentionConfig bounds every queue in time and size.
type RetentionConfig struct {
	Hours    int `koanf:"hours" validate:"gt=0"`
	MaxItems int `koanf:"max_items" validate:"gt=0"`
}

// ScraperConfig controls the scrape stage loop. SpoolDir, when set,
// registers the built-in spool crawler that ingests JSON drops left by
// external adapters.
type ScraperConfig struct {
	Loop            bool   `koanf:"loop"`
	IntervalSeconds int    `koanf:"interval_seconds" validate:"gt=0"`
	SpoolDir        string `koanf:"spool_dir"`
}

// ServerConfig configures the read-API HTTP server.
type ServerConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"gt=0,lte=65535"`
	Timeout         time.Duration `koanf:"timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"gt=0"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// ExportConfig controls the optional JSONL dump of the clean queue.
type ExportConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
}

// LoggingConfig configures the zerolog global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks structural constraints plus the cross-field rules the
// tag syntax cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Redis.Queue.Raw == c.Redis.Queue.Clean && c.Redis.DB.Scrape == c.Redis.DB.Clean {
		return fmt.Errorf("raw and clean queues collide: same key %q in db %d",
			c.Redis.Queue.Raw, c.Redis.DB.Scrape)
	}
	return nil
}

// RedisAddr renders the host:port dial address.
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Window returns the dedup time window as a duration.
func (d *DedupConfig) Window() time.Duration {
	return time.Duration(d.WindowHours) * time.Hour
}

// MaxAge returns the retention age cutoff as a duration.
func (r *RetentionConfig) MaxAge() time.Duration {
	return time.Duration(r.Hours) * time.Hour
}

// KeyTTL returns the snapshot key TTL as a duration.
func (a *AnalyticsConfig) KeyTTL() time.Duration {
	return time.Duration(a.KeyTTLSeconds) * time.Second
}
