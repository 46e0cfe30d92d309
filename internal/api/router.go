// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tickerwire/tickerwire/internal/config"
	"github.com/tickerwire/tickerwire/internal/middleware"
	"github.com/tickerwire/tickerwire/internal/websocket"
)

// Router assembles the HTTP surface.
type Router struct {
	handler *Handler
	hub     *websocket.Hub
	source  websocket.SectionSource
	cfg     config.ServerConfig
}

// NewRouter wires handlers, the websocket hub and server config.
func NewRouter(handler *Handler, hub *websocket.Hub, source websocket.SectionSource, cfg config.ServerConfig) *Router {
	return &Router{handler: handler, hub: hub, source: source, cfg: cfg}
}

// Setup builds the Chi route tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	}))

	rateWindow := rt.cfg.RateLimitWindow
	if rateWindow <= 0 {
		rateWindow = time.Minute
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(rt.cfg.RateLimitReqs, rateWindow))

		r.Route("/trends", func(r chi.Router) {
			r.Get("/all", rt.handler.TrendsAll)
			r.Get("/keywords", rt.handler.TrendsKeywords)
			r.Get("/history", rt.handler.TrendsHistory)
		})
		r.Get("/wordcloud", rt.handler.WordCloud)
		r.Get("/news", rt.handler.News)
		r.Get("/metadata", rt.handler.Metadata)

		r.Route("/health", func(r chi.Router) {
			r.Get("/live", rt.handler.HealthLive)
			r.Get("/ready", rt.handler.HealthReady)
		})
	})

	// Live push channels; the channel name selects the section.
	r.Get("/ws/{channel}", func(w http.ResponseWriter, req *http.Request) {
		channel := chi.URLParam(req, "channel")
		websocket.ServeWS(rt.hub, rt.source, channel, w, req)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
