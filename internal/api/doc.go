// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

/*
Package api exposes the recommendation index and the comment service over
HTTP using the chi router.

Routes (all JSON, wrapped in models.APIResponse):

	GET  /api/v1/health                       index readiness
	GET  /api/v1/health/live                  liveness probe
	GET  /api/v1/health/ready                 readiness probe (503 until a snapshot is served)
	POST /api/v1/rebuild[?async=true]         rebuild the index
	GET  /api/v1/similar/{itemID}?k=4         books similar to a book
	GET  /api/v1/recommendations/{userID}?k=10
	POST /api/v1/books/{bookID}/comments      add a comment (sentiment scored)
	GET  /api/v1/books/{bookID}/comments
	GET  /api/v1/books/{bookID}/rating        aggregated comment sentiment
	GET  /health                              alias of /api/v1/health
	GET  /metrics                             Prometheus

Domain errors are mapped to status codes in respondDomainError:
invalid input 400, unknown item 404, rebuild already running 409, index not
ready or source unavailable 503, anything else 500.
*/
package api
