// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/bookrec/internal/logging"
	"github.com/tomtom215/bookrec/internal/models"
	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/recommend/index"
	"github.com/tomtom215/bookrec/internal/validation"
)

// Similar returns the books most similar to a book.
//
// GET /api/v1/similar/{itemID}?k=4
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	k, err := getIntParam(r, "k", h.index.Config().DefaultSimilarK)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	req := validation.SimilarRequest{ItemID: chi.URLParam(r, "itemID"), K: k}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res, err := h.index.Similar(ctx, req.ItemID, req.K)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.respondResult(w, res, start, false)
}

// Recommendations returns personalized recommendations for a user, or the
// non-personalized ranking when the user has no usable history.
//
// GET /api/v1/recommendations/{userID}?k=10
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	k, err := getIntParam(r, "k", h.index.Config().DefaultRecommendK)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	req := validation.RecommendRequest{UserID: chi.URLParam(r, "userID"), K: k}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res, err := h.index.Recommend(ctx, req.UserID, req.K)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.respondResult(w, res, start, true)
}

func (h *Handler) respondResult(w http.ResponseWriter, res *index.Result, start time.Time, withFallback bool) {
	books := models.NewBookResponses(res.Items)
	meta := models.Metadata{
		QueryTimeMS:  time.Since(start).Milliseconds(),
		Count:        intPtr(len(books)),
		IndexVersion: res.Version,
	}
	if withFallback {
		meta.Fallback = boolPtr(res.Fallback)
	}
	respondSuccess(w, http.StatusOK, books, meta)
}

// Rebuild reloads the catalog and swaps in a fresh index.
//
// POST /api/v1/rebuild answers 200 once the new snapshot is served.
// POST /api/v1/rebuild?async=true answers 202 and rebuilds in the background.
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	if getBoolParam(r, "async") {
		h.rebuildAsync(w, r)
		return
	}

	res, err := h.index.Rebuild(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, models.RebuildResponse{
		Status:         "retrained",
		NBooks:         res.ItemCount,
		Version:        res.Version,
		VocabularySize: res.VocabularySize,
		DurationMS:     res.DurationMS,
	}, models.Metadata{IndexVersion: res.Version})
}

func (h *Handler) rebuildAsync(w http.ResponseWriter, r *http.Request) {
	switch h.index.Health().State {
	case index.StateLoading.String(), index.StateRebuilding.String():
		respondDomainError(w, recommend.ErrRebuildInProgress)
		return
	}

	// The rebuild outlives the request; the manager applies its own timeout.
	ctx := context.WithoutCancel(r.Context())
	logger := logging.Ctx(ctx)

	h.background.Add(1)
	go func() {
		defer h.background.Done()
		res, err := h.index.Rebuild(ctx)
		switch {
		case errors.Is(err, recommend.ErrRebuildInProgress):
			logger.Warn().Msg("background rebuild skipped, another rebuild is running")
		case err != nil:
			logger.Error().Err(err).Msg("background rebuild failed")
		default:
			logger.Info().Int("version", res.Version).Int("items", res.ItemCount).Msg("background rebuild complete")
		}
	}()

	respondSuccess(w, http.StatusAccepted, models.RebuildResponse{Status: "accepted"}, models.Metadata{})
}
