// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestRecordPass verifies pass recording for both outcomes.
func TestRecordPass(t *testing.T) {
	tests := []struct {
		name     string
		stage    string
		duration time.Duration
		err      error
	}{
		{"fast clean pass", "cleaner", 50 * time.Millisecond, nil},
		{"slow analytics pass", "analytics", 12 * time.Second, nil},
		{"failed pass", "analytics", 2 * time.Second, errors.New("store unreachable")},
		{"scrape pass", "scraper", 30 * time.Second, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordPass(tt.stage, tt.duration, tt.err)
		})
	}
}

// TestRecordScrape verifies per-source crawl accounting.
func TestRecordScrape(t *testing.T) {
	tests := []struct {
		name   string
		source string
		items  int
		errs   int
	}{
		{"clean crawl", "reddit", 120, 0},
		{"crawl with errors", "twitter", 40, 3},
		{"empty crawl", "rss", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordScrape(tt.source, tt.items, tt.errs)
		})
	}
}

// TestRecordSentimentBatch verifies empty labels map to "undecided".
func TestRecordSentimentBatch(t *testing.T) {
	RecordSentimentBatch("heuristic", []string{"Bullish", "Bearish", ""}, 10*time.Millisecond)
	RecordSentimentBatch("heuristic", nil, time.Millisecond)
}

// TestGaugeHelpers exercises the gauge-updating helpers.
func TestGaugeHelpers(t *testing.T) {
	UpdateQueueLength("raw_data_queue", 1500)
	UpdateQueueLength("cleaned_data_queue", 900)
	UpdateQueueLength("raw_data_queue", 0)

	RecordSnapshot(50, 10)
	RecordSnapshot(0, 0)

	TrackWSConnection(true)
	TrackWSConnection(true)
	TrackWSConnection(false)

	SetCircuitBreakerState("sentiment-oracle", 0)
	SetCircuitBreakerState("sentiment-oracle", 2)
	SetCircuitBreakerState("sentiment-oracle", 1)
}

// TestRecordCleanPass verifies the pass breakdown counters accept zeros.
func TestRecordCleanPass(t *testing.T) {
	RecordCleanPass(100, 20, 5)
	RecordCleanPass(0, 0, 0)
	RecordWriteBack(42, 3)
	RecordWriteBack(0, 0)
}

// TestConcurrentRecording verifies thread safety of the helpers.
func TestConcurrentRecording(t *testing.T) {
	var wg sync.WaitGroup
	const goroutines = 50
	const ops = 100

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < ops; j++ {
				RecordPass("cleaner", time.Duration(j)*time.Millisecond, nil)
				RecordCleanPass(1, 0, 0)
				TrackWSConnection(true)
				TrackWSConnection(false)
			}
		}()
	}
	wg.Wait()
}

// TestMetricsRegistration verifies every collector describes itself.
func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		PassDuration,
		PassesTotal,
		QueueLength,
		ScrapedItems,
		ScrapeErrors,
		CleanedItems,
		DuplicateItems,
		InvalidItems,
		TrimmedItems,
		SentimentPredictions,
		SentimentBatchDuration,
		SentimentWriteBacks,
		SnapshotKeywords,
		SnapshotHistorySeries,
		SnapshotPublishes,
		NotificationsPublished,
		NotificationsReceived,
		WSConnections,
		WSMessagesSent,
		WSMessagesReceived,
		CircuitBreakerState,
	}

	for _, c := range collectors {
		ch := make(chan *prometheus.Desc, 10)
		c.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("collector has no descriptors")
		}
	}
}

func BenchmarkRecordPass(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordPass("cleaner", 100*time.Millisecond, nil)
	}
}

func BenchmarkTrackWSConnection(b *testing.B) {
	for i := 0; i < b.N; i++ {
		TrackWSConnection(true)
		TrackWSConnection(false)
	}
}
