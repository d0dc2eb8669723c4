// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`

	// Count is the number of items in Data for list responses.
	Count *int `json:"count,omitempty"`

	// Fallback reports whether recommendations are non-personalized.
	// Only set on recommendation responses.
	Fallback *bool `json:"fallback,omitempty"`

	// IndexVersion is the snapshot version that served the query.
	IndexVersion int `json:"index_version,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Error codes:
//   - VALIDATION_ERROR, INVALID_INPUT: bad identifiers, k or request body
//   - NOT_FOUND: unknown item
//   - INDEX_NOT_READY: no snapshot is being served yet
//   - SOURCE_UNAVAILABLE: the catalog store cannot be reached
//   - REBUILD_IN_PROGRESS: another rebuild is running
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
