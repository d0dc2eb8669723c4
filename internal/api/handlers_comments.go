// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/bookrec/internal/comments"
	"github.com/tomtom215/bookrec/internal/models"
	"github.com/tomtom215/bookrec/internal/validation"
)

// maxCommentBody bounds the request body of a comment post.
const maxCommentBody = 64 << 10

// bookID extracts and validates the {bookID} path parameter.
func bookID(w http.ResponseWriter, r *http.Request) (string, bool) {
	req := validation.BookRequest{BookID: chi.URLParam(r, "bookID")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return "", false
	}
	return req.BookID, true
}

// PostComment stores a comment and scores its sentiment.
//
// POST /api/v1/books/{bookID}/comments {"user_id": "...", "text": "...", "rating": 4}
func (h *Handler) PostComment(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	var req validation.CommentRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxCommentBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "Request body too large", nil)
			return
		}
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be a JSON object", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	c, err := h.comments.Post(r.Context(), comments.PostInput{
		BookID: id,
		UserID: req.UserID,
		Text:   req.Text,
		Rating: req.Rating,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, c, models.Metadata{})
}

// ListComments returns a book's comments, oldest first.
//
// GET /api/v1/books/{bookID}/comments
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	list, err := h.comments.List(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, list, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Count:       intPtr(len(list)),
	})
}

// BookRating returns the aggregated sentiment of a book's comments.
//
// GET /api/v1/books/{bookID}/rating
func (h *Handler) BookRating(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	rating, err := h.comments.Rating(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, rating, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
	})
}
