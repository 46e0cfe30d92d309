// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package analytics

import (
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tickerwire/tickerwire/internal/models"
)

// Record is one clean-queue entry as the analytics engine sees it: the
// parsed identity and time plus a lowercase cleaned text for keyword
// matching. The original raw text is kept for the news feed and the
// sentiment oracle.
type Record struct {
	ID        string
	CreatedAt time.Time
	Sentiment string
	Source    string
	URL       string

	// Text is the record's raw text field; CleanText is its tokenizer
	// form (URLs, cashtags and punctuation stripped, lowercased).
	Text      string
	CleanText string
}

// legacySentiments maps labels emitted by older upstream deployments
// onto the canonical set. Unknown non-empty labels become neutral;
// empty stays empty so the oracle fills it.
var legacySentiments = map[string]string{
	"正面":                     models.SentimentBullish,
	"中性":                     models.SentimentNeutral,
	"负面":                     models.SentimentBearish,
	models.SentimentBullish: models.SentimentBullish,
	models.SentimentNeutral: models.SentimentNeutral,
	models.SentimentBearish: models.SentimentBearish,
}

var (
	urlPattern     = regexp.MustCompile(`http\S+`)
	cashtagPattern = regexp.MustCompile(`\$\w+\.\w+`)
	nonWordPattern = regexp.MustCompile(`[^\w\s]`)
)

// CleanForTokens reduces free text to the tokenizer alphabet.
func CleanForTokens(text string) string {
	text = urlPattern.ReplaceAllString(text, "")
	text = cashtagPattern.ReplaceAllString(text, "")
	text = nonWordPattern.ReplaceAllString(text, " ")
	text = strings.ToLower(text)
	return strings.Join(strings.Fields(text), " ")
}

// ParseRecord decodes one queue entry. Time preference is the ISO
// created_at stamped by the cleaner, falling back to the raw timestamp
// field; a record with neither gets the pass wall time so it lands in
// the current window rather than vanishing.
func ParseRecord(entry string, now time.Time) (Record, bool) {
	var raw models.RawItem
	if err := json.Unmarshal([]byte(entry), &raw); err != nil {
		return Record{}, false
	}

	rec := Record{
		ID:     firstNonEmpty(raw.String("id"), raw.String("post_id")),
		Source: raw.String("source"),
		URL:    raw.String("url"),
	}

	if t, ok := models.ParseFlexibleTime(raw["created_at"]); ok {
		rec.CreatedAt = t
	} else if t, ok := models.ParseFlexibleTime(raw["timestamp"]); ok {
		rec.CreatedAt = t
	} else {
		rec.CreatedAt = now.UTC()
	}

	if s := raw.String("sentiment"); s != "" {
		mapped, ok := legacySentiments[s]
		if !ok {
			mapped = models.SentimentNeutral
		}
		rec.Sentiment = mapped
	}

	rec.Text = firstNonEmpty(raw.String("text"), raw.String("content"))
	rec.CleanText = CleanForTokens(rec.Text)
	return rec, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ContainsKeyword reports a case-insensitive substring match against the
// cleaned text. CleanText is already lowercase, so only the needle is
// folded.
func (r *Record) ContainsKeyword(keyword string) bool {
	return strings.Contains(r.CleanText, strings.ToLower(keyword))
}
