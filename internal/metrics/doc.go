// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

// Package metrics defines the Prometheus collectors of the service.
//
// Collectors are registered on the default registry through promauto and
// exposed on /metrics:
//
//   - api_*: request counts, latency and in-flight requests per endpoint
//   - index_*: lifecycle state, served snapshot dimensions, rebuild outcomes
//   - recommend_*: query counts, latency and fallback rate
//   - cache_*: hit, miss and backend error counts per cache type
//   - source_*: document and interaction store latency and errors
//   - circuit_breaker_*: breaker state and transitions per source
//   - sentiment_* and comments_*: classifier calls and comment volume
//
// Record helpers keep label values consistent across call sites.
package metrics
