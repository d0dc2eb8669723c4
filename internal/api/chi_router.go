// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/bookrec/internal/middleware"
)

// RouterConfig tunes the router.
type RouterConfig struct {
	// SlowRequestThreshold escalates the access log line to warn.
	SlowRequestThreshold time.Duration

	// CompressionLevel is the gzip level used for responses.
	CompressionLevel int
}

// DefaultRouterConfig returns the default router settings.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		SlowRequestThreshold: 500 * time.Millisecond,
		CompressionLevel:     5,
	}
}

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	config        RouterConfig
}

// NewRouter creates a router. A nil middleware factory uses the defaults.
func NewRouter(handler *Handler, mw *ChiMiddleware, cfg RouterConfig) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw, config: cfg}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(chimiddleware.Compress(router.config.CompressionLevel, "application/json"))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// Health endpoints
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})
	r.With(router.chiMiddleware.RateLimitHealth(), APISecurityHeaders()).
		Get("/health", router.handler.Health)

	// Core API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.AccessLog(router.config.SlowRequestThreshold))

		r.With(router.chiMiddleware.RateLimitRebuild()).Post("/rebuild", router.handler.Rebuild)
		r.Get("/similar/{itemID}", router.handler.Similar)
		r.Get("/recommendations/{userID}", router.handler.Recommendations)

		if router.handler.comments != nil {
			r.Route("/books/{bookID}", func(r chi.Router) {
				r.With(router.chiMiddleware.RateLimitWrite()).Post("/comments", router.handler.PostComment)
				r.Get("/comments", router.handler.ListComments)
				r.Get("/rating", router.handler.BookRating)
			})
		}
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
