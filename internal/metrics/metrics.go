// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Stage Pass Metrics
	PassDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_pass_duration_seconds",
			Help:    "Duration of one stage pass in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"stage"},
	)

	PassesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_passes_total",
			Help: "Total number of stage passes",
		},
		[]string{"stage", "result"}, // result: "ok", "error"
	)

	QueueLength = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipeline_queue_length",
			Help: "Current number of entries in a Redis queue",
		},
		[]string{"queue"},
	)

	// Scraper Metrics
	ScrapedItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_items_total",
			Help: "Total number of raw items pushed per source",
		},
		[]string{"source"},
	)

	ScrapeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "Total number of crawl errors per source",
		},
		[]string{"source"},
	)

	// Cleaner Metrics
	CleanedItems = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cleaner_items_cleaned_total",
			Help: "Total number of items normalized and pushed to the clean queue",
		},
	)

	DuplicateItems = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cleaner_items_duplicate_total",
			Help: "Total number of items skipped as duplicates",
		},
	)

	InvalidItems = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cleaner_items_invalid_total",
			Help: "Total number of items dropped as malformed or empty",
		},
	)

	TrimmedItems = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cleaner_items_trimmed_total",
			Help: "Total number of entries removed by retention trimming",
		},
	)

	// Sentiment Metrics
	SentimentPredictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_predictions_total",
			Help: "Total number of sentiment labels produced",
		},
		[]string{"oracle", "label"},
	)

	SentimentBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentiment_batch_duration_seconds",
			Help:    "Duration of sentiment batch predictions in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SentimentWriteBacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_writebacks_total",
			Help: "Total number of sentiment write-back results",
		},
		[]string{"result"}, // "updated", "not_found"
	)

	// Snapshot Metrics
	SnapshotKeywords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_trending_keywords",
			Help: "Number of trending keywords in the last published snapshot",
		},
	)

	SnapshotHistorySeries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_history_series",
			Help: "Number of per-keyword history series in the last published snapshot",
		},
	)

	SnapshotPublishes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshot_publishes_total",
			Help: "Total number of snapshots written to the analytics store",
		},
	)

	// Notification Metrics
	NotificationsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_published_total",
			Help: "Total number of completion events published",
		},
		[]string{"event"},
	)

	NotificationsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_received_total",
			Help: "Total number of completion events received",
		},
		[]string{"event", "origin"}, // origin: "pubsub", "poll"
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)
)

// RecordPass records one stage pass with its outcome.
func RecordPass(stage string, duration time.Duration, err error) {
	PassDuration.WithLabelValues(stage).Observe(duration.Seconds())
	result := "ok"
	if err != nil {
		result = "error"
	}
	PassesTotal.WithLabelValues(stage, result).Inc()
}

// RecordScrape records a crawl result for one source.
func RecordScrape(source string, items, errs int) {
	ScrapedItems.WithLabelValues(source).Add(float64(items))
	if errs > 0 {
		ScrapeErrors.WithLabelValues(source).Add(float64(errs))
	}
}

// RecordCleanPass records one cleaning pass breakdown.
func RecordCleanPass(cleaned, duplicates, invalid int) {
	CleanedItems.Add(float64(cleaned))
	DuplicateItems.Add(float64(duplicates))
	InvalidItems.Add(float64(invalid))
}

// RecordSentimentBatch records a batch prediction and its labels.
func RecordSentimentBatch(oracle string, labels []string, duration time.Duration) {
	SentimentBatchDuration.Observe(duration.Seconds())
	for _, label := range labels {
		if label == "" {
			label = "undecided"
		}
		SentimentPredictions.WithLabelValues(oracle, label).Inc()
	}
}

// RecordWriteBack records the outcome of a sentiment write-back.
func RecordWriteBack(updated, notFound int) {
	SentimentWriteBacks.WithLabelValues("updated").Add(float64(updated))
	SentimentWriteBacks.WithLabelValues("not_found").Add(float64(notFound))
}

// RecordSnapshot records one snapshot publication.
func RecordSnapshot(keywords, historySeries int) {
	SnapshotPublishes.Inc()
	SnapshotKeywords.Set(float64(keywords))
	SnapshotHistorySeries.Set(float64(historySeries))
}

// UpdateQueueLength updates the queue length gauge for one queue.
func UpdateQueueLength(queue string, length int64) {
	QueueLength.WithLabelValues(queue).Set(float64(length))
}

// TrackWSConnection adjusts the active connection gauge.
func TrackWSConnection(connected bool) {
	if connected {
		WSConnections.Inc()
	} else {
		WSConnections.Dec()
	}
}

// SetCircuitBreakerState updates the breaker state gauge.
// 0=closed, 1=half-open, 2=open.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordAPIRequest records one completed API request. The route label is
// the matched route pattern, not the raw path, to keep cardinality bounded.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
