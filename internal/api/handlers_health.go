// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/bookrec/internal/models"
)

// Health reports index readiness. It always answers 200 so dashboards can
// read the state of a starting instance; use HealthReady for probes.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, models.NewHealthResponse(h.index.Health()), models.Metadata{})
}

// HealthLive answers as long as the process serves HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]any{
		"status":         "alive",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	}, models.Metadata{})
}

// HealthReady answers 503 until a snapshot is being served.
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	resp := models.NewHealthResponse(h.index.Health())
	status := http.StatusOK
	if !resp.Ready {
		status = http.StatusServiceUnavailable
	}
	respondSuccess(w, status, resp, models.Metadata{})
}
