// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package api

import (
	"context"
	"net/http"

	"github.com/tickerwire/tickerwire/internal/models"
)

// ReadAPI is the snapshot surface the handlers consume; implemented by
// snapshot.Reader.
type ReadAPI interface {
	All(ctx context.Context) (*models.Snapshot, error)
	Metadata(ctx context.Context) (*models.SnapshotMetadata, error)
	Trending(ctx context.Context) ([]models.TrendingKeyword, error)
	WordCloud(ctx context.Context) ([]models.WordCloudEntry, error)
	NewsFeed(ctx context.Context) ([]models.NewsItem, error)
	History(ctx context.Context) (map[string][]models.HistoryPoint, error)
	Ping(ctx context.Context) error
}

// Handler holds the read surface for all endpoints.
type Handler struct {
	reader ReadAPI
}

// NewHandler builds the endpoint set.
func NewHandler(reader ReadAPI) *Handler {
	return &Handler{reader: reader}
}

// TrendsAll serves GET /api/v1/trends/all: keywords + history + metadata
// in one payload.
func (h *Handler) TrendsAll(w http.ResponseWriter, r *http.Request) {
	snap, err := h.reader.All(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"trending_keywords": snap.TrendingKeywords,
		"history_data":      snap.HistoryData,
		"metadata":          snap.Metadata,
	})
}

// TrendsKeywords serves GET /api/v1/trends/keywords.
func (h *Handler) TrendsKeywords(w http.ResponseWriter, r *http.Request) {
	trending, err := h.reader.Trending(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot unavailable")
		return
	}
	writeJSON(w, http.StatusOK, trending)
}

// TrendsHistory serves GET /api/v1/trends/history.
func (h *Handler) TrendsHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.reader.History(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot unavailable")
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// WordCloud serves GET /api/v1/wordcloud.
func (h *Handler) WordCloud(w http.ResponseWriter, r *http.Request) {
	cloud, err := h.reader.WordCloud(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot unavailable")
		return
	}
	writeJSON(w, http.StatusOK, cloud)
}

// News serves GET /api/v1/news.
func (h *Handler) News(w http.ResponseWriter, r *http.Request) {
	feed, err := h.reader.NewsFeed(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot unavailable")
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

// Metadata serves GET /api/v1/metadata.
func (h *Handler) Metadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.reader.Metadata(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot unavailable")
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// HealthLive serves GET /api/v1/health/live: process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady serves GET /api/v1/health/ready: the store answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.reader.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
