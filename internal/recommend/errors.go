// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package recommend

import "errors"

var (
	// ErrSourceUnavailable means a collaborator store could not be reached.
	// Callers may retry.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrIndexNotReady is returned for queries issued before the first
	// snapshot was built or loaded.
	ErrIndexNotReady = errors.New("index not ready")

	// ErrNotFound means the referenced item is not in the current snapshot.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks malformed identifiers or parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRebuildInProgress is returned when a rebuild is requested while
	// another one is running.
	ErrRebuildInProgress = errors.New("rebuild already in progress")
)
