// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package models

// SnapshotMetadata describes one analytics pass. Serialized under
// <prefix>:metadata; fully overwritten every pass.
type SnapshotMetadata struct {
	Timestamp string `json:"timestamp"`
	// UpdateInterval is the expected minutes between snapshots, a hint
	// for dashboard refresh logic.
	UpdateInterval int            `json:"update_interval"`
	DataVersion    string         `json:"data_version"`
	NewsSources    map[string]int `json:"news_sources"`
	// PublishTime is stamped when the snapshot is written to the store.
	PublishTime string `json:"redis_publish_time,omitempty"`
}

// SentimentBreakdown is the per-keyword Bullish/Bearish split, reported
// as positive/negative percentages that always sum to 100 when
// TotalComments > 0.
type SentimentBreakdown struct {
	Positive      int `json:"positive"`
	Negative      int `json:"negative"`
	TotalComments int `json:"total_comments"`
}

// TrendingKeyword is one row of the ranked trending list.
type TrendingKeyword struct {
	Keyword          string             `json:"keyword"`
	Rank             int                `json:"rank"`
	CurrentFrequency int                `json:"current_frequency"`
	GrowthRate       float64            `json:"growth_rate"`
	TrendScore       float64            `json:"trend_score"`
	Sentiment        SentimentBreakdown `json:"sentiment"`
}

// WordCloudEntry is one token of the word cloud, ordered by descending
// Value.
type WordCloudEntry struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// HistoryPoint is one hourly bucket of a keyword's 24-point series.
type HistoryPoint struct {
	Timestamp string `json:"timestamp"`
	Frequency int    `json:"frequency"`
}

// NewsItem is one entry of the news feed. Sentiment here is the derived
// single label: positive, neutral or negative.
type NewsItem struct {
	Title       string `json:"title"`
	PublishTime string `json:"publish_time"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	Sentiment   string `json:"sentiment"`
}

// Snapshot aggregates every section for the read API's combined endpoint.
// Cross-section consistency is best-effort: each section is read from its
// own key and may come from adjacent passes.
type Snapshot struct {
	Metadata         *SnapshotMetadata         `json:"metadata"`
	TrendingKeywords []TrendingKeyword         `json:"trending_keywords"`
	WordCloud        []WordCloudEntry          `json:"word_cloud"`
	HistoryData      map[string][]HistoryPoint `json:"history_data"`
	NewsFeed         []NewsItem                `json:"news_feed"`
}
