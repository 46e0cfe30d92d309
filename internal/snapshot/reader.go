// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

// Package snapshot reads the analytics snapshot keys. Strictly pure-read
// against the analytics database: an absent or expired section yields its
// empty-shape default, never an error surfaced to dashboards.
package snapshot

import (
	"context"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/models"
	"github.com/tickerwire/tickerwire/internal/store"
)

// Reader serves snapshot sections from the analytics database.
type Reader struct {
	client *store.Client
	prefix string
}

// NewReader binds a reader to the snapshot key prefix.
func NewReader(client *store.Client, prefix string) *Reader {
	return &Reader{client: client, prefix: prefix}
}

// defaultMetadata is served when no pass has published yet.
func defaultMetadata() *models.SnapshotMetadata {
	return &models.SnapshotMetadata{
		Timestamp:      "",
		UpdateInterval: 60,
		DataVersion:    "1.0",
		NewsSources:    map[string]int{},
	}
}

// Metadata returns the snapshot metadata or its default.
func (r *Reader) Metadata(ctx context.Context) (*models.SnapshotMetadata, error) {
	meta := defaultMetadata()
	if err := r.section(ctx, "metadata", meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// Trending returns the ranked trending keywords; empty list when absent.
func (r *Reader) Trending(ctx context.Context) ([]models.TrendingKeyword, error) {
	out := []models.TrendingKeyword{}
	if err := r.section(ctx, "trending_keywords", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WordCloud returns the word cloud entries; empty list when absent.
func (r *Reader) WordCloud(ctx context.Context) ([]models.WordCloudEntry, error) {
	out := []models.WordCloudEntry{}
	if err := r.section(ctx, "word_cloud", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NewsFeed returns the news feed; empty list when absent.
func (r *Reader) NewsFeed(ctx context.Context) ([]models.NewsItem, error) {
	out := []models.NewsItem{}
	if err := r.section(ctx, "news_feed", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// History returns every keyword's 24-point series, keyed by keyword.
func (r *Reader) History(ctx context.Context) (map[string][]models.HistoryPoint, error) {
	historyPrefix := r.prefix + ":history_data:"
	keys, err := r.client.ScanKeys(ctx, historyPrefix+"*")
	if err != nil {
		return nil, err
	}

	out := make(map[string][]models.HistoryPoint, len(keys))
	for _, key := range keys {
		keyword := strings.TrimPrefix(key, historyPrefix)
		payload, ok, err := r.client.GetString(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		var points []models.HistoryPoint
		if err := json.Unmarshal([]byte(payload), &points); err != nil {
			logging.Warn().Err(err).Str("key", key).Msg("corrupt history section skipped")
			continue
		}
		out[keyword] = points
	}
	return out, nil
}

// All assembles the combined snapshot. Sections are read from separate
// keys, so cross-section consistency is best-effort by design.
func (r *Reader) All(ctx context.Context) (*models.Snapshot, error) {
	meta, err := r.Metadata(ctx)
	if err != nil {
		return nil, err
	}
	trending, err := r.Trending(ctx)
	if err != nil {
		return nil, err
	}
	cloud, err := r.WordCloud(ctx)
	if err != nil {
		return nil, err
	}
	history, err := r.History(ctx)
	if err != nil {
		return nil, err
	}
	feed, err := r.NewsFeed(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Snapshot{
		Metadata:         meta,
		TrendingKeywords: trending,
		WordCloud:        cloud,
		HistoryData:      history,
		NewsFeed:         feed,
	}, nil
}

// Ping verifies the analytics database is reachable.
func (r *Reader) Ping(ctx context.Context) error {
	_, _, err := r.client.GetString(ctx, r.prefix+":metadata")
	return err
}

func (r *Reader) section(ctx context.Context, suffix string, into any) error {
	payload, ok, err := r.client.GetString(ctx, r.prefix+":"+suffix)
	if err != nil || !ok {
		return err
	}
	return json.Unmarshal([]byte(payload), into)
}
