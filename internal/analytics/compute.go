// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/tickerwire/tickerwire/internal/models"
)

// keywordFreq is one token with its current-window count.
type keywordFreq struct {
	word  string
	count int
}

// Tokenize splits cleaned text into analyzable tokens: length >= 3, not
// a stop word, not pure digits.
func Tokenize(cleanText string) []string {
	words := strings.Fields(cleanText)
	out := words[:0]
	for _, w := range words {
		if len(w) < 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if isDigits(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// extractKeywords counts tokens across texts and returns the topN by
// frequency. Ties keep first-appearance order so the ranking is stable
// across runs over the same input.
func extractKeywords(texts []string, topN int) []keywordFreq {
	counts := make(map[string]int)
	order := make(map[string]int)
	for _, text := range texts {
		for _, w := range Tokenize(text) {
			if _, seen := counts[w]; !seen {
				order[w] = len(order)
			}
			counts[w]++
		}
	}

	freqs := make([]keywordFreq, 0, len(counts))
	for w, c := range counts {
		freqs = append(freqs, keywordFreq{word: w, count: c})
	}
	sort.SliceStable(freqs, func(i, j int) bool {
		if freqs[i].count != freqs[j].count {
			return freqs[i].count > freqs[j].count
		}
		return order[freqs[i].word] < order[freqs[j].word]
	})

	if len(freqs) > topN {
		freqs = freqs[:topN]
	}
	return freqs
}

// growthRate compares the current-window frequency against the
// historical mean, in percent. A dead keyword stays at 0; a keyword with
// no history at all registers as 100.
func growthRate(current int, historyMean float64) float64 {
	if historyMean == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (float64(current) - historyMean) / historyMean * 100
}

// trendScore blends normalized frequency (weight 0.6) with normalized
// absolute growth (weight 0.4), rounded to 2 decimals.
func trendScore(current int, growth float64, maxCurrent int) float64 {
	var freqScore float64
	if maxCurrent > 0 {
		freqScore = float64(current) / float64(maxCurrent)
	}
	growthScore := math.Min(math.Abs(growth)/100, 1)
	return round2(freqScore*0.6 + growthScore*0.4)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }

// sentimentBreakdown computes the Bullish/Bearish split over the records
// matching keyword (all records when keyword is empty), reported as
// positive/negative percentages normalized to sum to 100, remainder on
// the negative side. The empty set reports {0, 100, 0}.
func sentimentBreakdown(records []Record, keyword string) models.SentimentBreakdown {
	var total, bullish, bearish int
	for i := range records {
		if keyword != "" && !records[i].ContainsKeyword(keyword) {
			continue
		}
		total++
		switch records[i].Sentiment {
		case models.SentimentBullish:
			bullish++
		case models.SentimentBearish:
			bearish++
		}
	}
	if total == 0 {
		return models.SentimentBreakdown{Positive: 0, Negative: 100, TotalComments: 0}
	}

	positive := int(math.Round(float64(bullish) / float64(total) * 100))
	negative := int(math.Round(float64(bearish) / float64(total) * 100))
	negative += 100 - (positive + negative)

	return models.SentimentBreakdown{
		Positive:      positive,
		Negative:      negative,
		TotalComments: total,
	}
}

// sentimentLabel collapses a breakdown into one feed label. The
// percentages always sum to 100 with neutral implicit at 0, so the label
// is whichever side holds the majority; positive wins an exact tie.
func sentimentLabel(b models.SentimentBreakdown) string {
	if b.Positive >= b.Negative {
		return "positive"
	}
	return "negative"
}

// trendingKeywords builds the ranked list: for each of the topK current
// keywords, growth against the /48 historical mean, the blended trend
// score, and the sentiment split over every record mentioning it.
func trendingKeywords(current []keywordFreq, topK int, all, history []Record) []models.TrendingKeyword {
	if len(current) > topK {
		current = current[:topK]
	}

	maxCurrent := 0
	for _, kf := range current {
		if kf.count > maxCurrent {
			maxCurrent = kf.count
		}
	}

	out := make([]models.TrendingKeyword, 0, len(current))
	for rank, kf := range current {
		var historyCount int
		for i := range history {
			if history[i].ContainsKeyword(kf.word) {
				historyCount++
			}
		}
		mean := float64(historyCount) / historicalDivisor
		growth := growthRate(kf.count, mean)

		out = append(out, models.TrendingKeyword{
			Keyword:          kf.word,
			Rank:             rank + 1,
			CurrentFrequency: kf.count,
			GrowthRate:       round1(growth),
			TrendScore:       trendScore(kf.count, growth, maxCurrent),
			Sentiment:        sentimentBreakdown(all, kf.word),
		})
	}
	return out
}

// historySeries emits exactly 24 hourly points per keyword, counting all
// records whose created_at falls in each half-open bucket.
func historySeries(keywords []string, all []Record, w Windows) map[string][]models.HistoryPoint {
	buckets := w.Buckets()
	series := make(map[string][]models.HistoryPoint, len(keywords))

	for _, kw := range keywords {
		var matching []Record
		for i := range all {
			if all[i].ContainsKeyword(kw) {
				matching = append(matching, all[i])
			}
		}

		points := make([]models.HistoryPoint, len(buckets))
		for i, b := range buckets {
			count := 0
			for j := range matching {
				if b.Contains(matching[j].CreatedAt) {
					count++
				}
			}
			points[i] = models.HistoryPoint{
				Timestamp: models.FormatUTC(b.Start),
				Frequency: count,
			}
		}
		series[kw] = points
	}
	return series
}

// wordCloud renders the topN current keywords as cloud entries.
func wordCloud(current []keywordFreq, topN int) []models.WordCloudEntry {
	if len(current) > topN {
		current = current[:topN]
	}
	out := make([]models.WordCloudEntry, len(current))
	for i, kf := range current {
		out[i] = models.WordCloudEntry{Text: kf.word, Value: kf.count}
	}
	return out
}

// newsFeed takes the newest limit records. The title is the full text;
// the sentiment label derives from the breakdown restricted to records
// sharing the id, which for a unique id is that record alone.
func newsFeed(all []Record, limit int) []models.NewsItem {
	sorted := make([]Record, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]models.NewsItem, len(sorted))
	for i := range sorted {
		var sameID []Record
		for j := range all {
			if all[j].ID != "" && all[j].ID == sorted[i].ID {
				sameID = append(sameID, all[j])
			}
		}
		if len(sameID) == 0 {
			sameID = sorted[i : i+1]
		}
		out[i] = models.NewsItem{
			Title:       sorted[i].Text,
			PublishTime: models.FormatUTC(sorted[i].CreatedAt),
			Source:      sorted[i].Source,
			URL:         sorted[i].URL,
			Sentiment:   sentimentLabel(sentimentBreakdown(sameID, "")),
		}
	}
	return out
}

// newsSources counts records per source; empty sources group under
// Unknown.
func newsSources(all []Record) map[string]int {
	out := make(map[string]int)
	for i := range all {
		src := all[i].Source
		if src == "" {
			src = "Unknown"
		}
		out[src]++
	}
	return out
}
