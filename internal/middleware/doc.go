// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

/*
Package middleware provides chi-compatible HTTP middleware that is not
available from the chi ecosystem itself.

  - PrometheusMetrics: request count, latency histogram and in-flight gauge,
    labelled by chi route pattern.
  - AccessLog: per-request structured log line through the context logger,
    escalated to warn for slow requests.

Both middlewares must be installed inside a chi router so the route pattern
is known once the request has been served:

	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Use(middleware.AccessLog(500 * time.Millisecond))
	    r.Get("/similar/{itemID}", h.Similar)
	})

Request ids, compression, panic recovery and real-ip extraction come from
github.com/go-chi/chi/v5/middleware.
*/
package middleware
