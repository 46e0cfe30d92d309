// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

/*
Package metrics provides Prometheus instrumentation for the pipeline.

Metrics are registered through promauto against the default registry and
exposed on /metrics by the server binary. The stage binaries record into
the same registry; processes that do not serve HTTP still pay the
(negligible) recording cost so that the call sites stay unconditional.

Metric families:

  - pipeline_pass_duration_seconds / pipeline_passes_total: one
    observation per stage pass, labeled by stage and outcome
  - pipeline_queue_length: raw/clean queue depth after each pass
  - scraper_items_total / scraper_errors_total: per-source crawl results
  - cleaner_items_{cleaned,duplicate,invalid,trimmed}_total: cleaning
    pass breakdown
  - sentiment_predictions_total / sentiment_batch_duration_seconds /
    sentiment_writebacks_total: oracle activity
  - snapshot_publishes_total, snapshot_trending_keywords,
    snapshot_history_series: analytics output shape
  - notifications_{published,received}_total: pub/sub handoffs between
    stages
  - websocket_connections, websocket_messages_{sent,received}_total:
    live push surface
  - circuit_breaker_state: sentiment oracle breaker

Example PromQL:

	# pass rate by stage
	rate(pipeline_passes_total[5m])

	# p95 analytics pass latency
	histogram_quantile(0.95, rate(pipeline_pass_duration_seconds_bucket{stage="analytics"}[5m]))

	# duplicate ratio
	rate(cleaner_items_duplicate_total[15m]) / rate(cleaner_items_cleaned_total[15m])

All recording functions are safe for concurrent use; synchronization is
handled by the Prometheus client library. Labels are drawn from small
fixed sets (stage names, event names, sentiment labels) to keep
cardinality bounded.
*/
package metrics
