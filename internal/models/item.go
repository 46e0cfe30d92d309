// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

// Package models defines the queue record types shared by all four
// pipeline stages: the dynamic RawItem produced by crawlers, the
// normalized CleanItem produced by the cleaner, pub/sub notifications
// and the analytics snapshot sections.
package models

import (
	"strconv"
	"strings"
)

// Source tags carried by crawler items. The cleaner accepts any non-empty
// source string; these constants cover the adapters the scraper registers.
const (
	SourceRedditPost    = "reddit_post"
	SourceRedditComment = "reddit_comment"
	SourceRSS           = "rss"
	SourceNewsAPI       = "newsapi"
	SourceStockTwits    = "stocktwits"
	SourceAlphaVantage  = "alphavantage"
	SourceTwitter       = "twitter"
)

// Sentiment labels. Bullish/Bearish are the canonical labels stored on
// queue records; the read side reports them as positive/negative.
const (
	SentimentBullish = "Bullish"
	SentimentBearish = "Bearish"
	SentimentNeutral = "neutral"
)

// RawItem is a crawler's contribution: an arbitrary JSON object. Nothing
// is enforced at scrape time; the cleaner is the validation point, so the
// type stays a plain map with typed accessors.
type RawItem map[string]any

// String returns the value under key coerced to a string, or "" when the
// key is absent, nil, or not a scalar.
func (r RawItem) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// JSON numbers decode as float64; render integral values without
		// a fractional part so source ids survive the round trip.
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// Has reports whether key is present with a non-nil value.
func (r RawItem) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// idFields lists the origin-native identifier fields in fingerprint
// priority order.
var idFields = []string{"id", "post_id", "comment_id", "tweet_id", "guid", "message_id"}

// SourceID returns the first origin-native identifier found on the item,
// coerced to string, or "" when none is present.
func (r RawItem) SourceID() string {
	for _, f := range idFields {
		if s := r.String(f); s != "" {
			return s
		}
	}
	return ""
}

// HasText reports whether at least one of text/content/title is non-empty
// after whitespace stripping.
func (r RawItem) HasText() bool {
	for _, f := range []string{"text", "content", "title"} {
		if strings.TrimSpace(r.String(f)) != "" {
			return true
		}
	}
	return false
}

// CleanItem is a RawItem after normalization. Required: ID, CreatedAt,
// CleanedAt and at least one non-empty text field. The remaining fields
// are the curated metadata allow-list; anything else from the raw record
// is dropped on purpose.
type CleanItem struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	CleanedAt string `json:"cleaned_at"`

	Text    string `json:"text,omitempty"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`

	Source    string   `json:"source,omitempty"`
	URL       string   `json:"url,omitempty"`
	Author    string   `json:"author,omitempty"`
	Score     *float64 `json:"score,omitempty"`
	Comments  *float64 `json:"comments,omitempty"`
	Sentiment string   `json:"sentiment,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Subreddit string   `json:"subreddit,omitempty"`
	Symbol    string   `json:"symbol,omitempty"`
	Symbols   []string `json:"symbols,omitempty"`

	// Timestamp mirrors the raw record's unix timestamp when one was
	// present. Retention trims read this field; analytics reads CreatedAt.
	// The dual-field convention is preserved deliberately.
	Timestamp *float64 `json:"timestamp,omitempty"`
}

// BestText returns the first non-empty of text/content/title.
func (c *CleanItem) BestText() string {
	if c.Text != "" {
		return c.Text
	}
	if c.Content != "" {
		return c.Content
	}
	return c.Title
}
