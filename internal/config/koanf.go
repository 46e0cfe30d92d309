// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tickerwire/config.yaml",
	"/etc/tickerwire/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces Tickerwire's environment variables.
const envPrefix = "TICKERWIRE_"

// Default returns a Config with the pipeline's baseline defaults: dedup
// window 24 h, current window 60 min, 24-slot history, top-10 trending,
// 20-entry word cloud, retention 24 h / 10 000 items, snapshot TTL 24 h.
func Default() *Config {
	return &Config{
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     6379,
			Password: "",
			DB: DBConfig{
				Scrape:    0,
				Clean:     1,
				Analytics: 2,
			},
			Queue: QueueConfig{
				Raw:   "raw_queue",
				Clean: "clean_data_queue",
			},
			IDCacheKey: "set:cleaned_ids",
		},
		Notification: NotificationConfig{
			Listen: ListenConfig{
				Enabled:      true,
				Channel:      "",
				Mode:         ModeEventDriven,
				PollInterval: 60 * time.Second,
			},
			Send: SendConfig{
				Enabled: true,
				Channel: "",
			},
		},
		Dedup: DedupConfig{
			Mode:         DedupTimeWindow,
			WindowHours:  24,
			ClearOnStart: false,
			BatchSize:    100,
		},
		Analytics: AnalyticsConfig{
			CurrentWindowMinutes:  60,
			HistoryHours:          24,
			TrendingKeywordsCount: 10,
			WordCloudCount:        20,
			NewsFeedCount:         20,
			KeyPrefix:             "processed_data",
			KeyTTLSeconds:         86400,
		},
		Sentiment: SentimentConfig{
			Enabled:             true,
			BatchSize:           128,
			DeferWriteBack:      true,
			FallbackToHeuristic: true,
		},
		Retention: RetentionConfig{
			Hours:    24,
			MaxItems: 10000,
		},
		Scraper: ScraperConfig{
			Loop:            false,
			IntervalSeconds: 300,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8480,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
		},
		Export: ExportConfig{
			Enabled: false,
			Dir:     "output",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. TICKERWIRE_* environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// TICKERWIRE_REDIS_HOST -> redis.host, TICKERWIRE_DEDUPLICATION_WINDOW_HOURS
	// -> deduplication.window_hours, and so on.
	envProvider := env.Provider(envPrefix, ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := normalizeSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first config file that exists, honoring
// CONFIG_PATH first.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sectionNames are the top-level koanf sections; the env transform splits
// a flat variable name at the first section prefix it matches.
var sectionNames = []string{
	"redis", "notification", "deduplication", "analytics",
	"sentiment", "retention", "scraper", "server", "export", "logging",
}

// nestedPrefixes map second-level groupings that appear inside a section.
var nestedPrefixes = map[string][]string{
	"redis":        {"db", "queue"},
	"notification": {"listen", "send"},
}

// envTransform maps TICKERWIRE_REDIS_DB_CLEAN to redis.db.clean and
// TICKERWIRE_SENTIMENT_BATCH_SIZE to sentiment.batch_size.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	for _, section := range sectionNames {
		if !strings.HasPrefix(key, section+"_") {
			continue
		}
		rest := strings.TrimPrefix(key, section+"_")
		for _, nested := range nestedPrefixes[section] {
			if strings.HasPrefix(rest, nested+"_") {
				return section + "." + nested + "." + strings.TrimPrefix(rest, nested+"_")
			}
		}
		return section + "." + rest
	}
	// Unknown variables are left as-is; they simply won't match a koanf
	// tag and get dropped at unmarshal time.
	return key
}

// sliceConfigPaths lists the config paths parsed as comma-separated
// slices when they arrive from the environment as plain strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func normalizeSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		s, ok := val.(string)
		if !ok {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return err
		}
	}
	return nil
}
