// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package cleaner

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tickerwire/tickerwire/internal/models"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeText strips HTML tags and collapses whitespace runs to single
// spaces. Crawler output mixes plain text, RSS fragments and rendered
// markup; downstream tokenization assumes flat text.
func NormalizeText(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Normalize turns a validated raw item into a CleanItem.
//
// The id reuses the fingerprint when it came from a source id or URL;
// hash fingerprints get a synthetic generated_<ms> stamp instead, so a
// human reading the queue can tell derived ids from origin ids.
func Normalize(item models.RawItem, fp string, kind FingerprintKind, now time.Time) models.CleanItem {
	clean := models.CleanItem{
		CleanedAt: now.UTC().Format("2006-01-02T15:04:05.000000Z"),
		Text:      NormalizeText(item.String("text")),
		Title:     NormalizeText(item.String("title")),
		Content:   NormalizeText(item.String("content")),
		Source:    item.String("source"),
		URL:       item.String("url"),
		Author:    item.String("author"),
		Sentiment: item.String("sentiment"),
		Subreddit: item.String("subreddit"),
		Symbol:    item.String("symbol"),
	}

	switch kind {
	case FingerprintSourceID, FingerprintURL:
		clean.ID = fp
	default:
		clean.ID = fmt.Sprintf("generated_%d", now.UnixMilli())
	}

	if t, ok := item.PublicationTime(); ok {
		clean.CreatedAt = models.FormatUTC(t)
	} else {
		clean.CreatedAt = models.FormatUTC(now)
	}

	if v, ok := item["score"].(float64); ok {
		clean.Score = &v
	}
	if v, ok := item["comments"].(float64); ok {
		clean.Comments = &v
	}
	if v, ok := item["timestamp"].(float64); ok {
		clean.Timestamp = &v
	}
	clean.Tags = stringSlice(item["tags"])
	clean.Symbols = stringSlice(item["symbols"])

	return clean
}

func stringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
