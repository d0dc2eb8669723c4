// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookrec/internal/comments"
	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/recommend/index"
)

// requestTimeout bounds query handlers.
const requestTimeout = 10 * time.Second

// IndexService is the part of index.Manager the handlers use.
type IndexService interface {
	Similar(ctx context.Context, itemID string, k int) (*index.Result, error)
	Recommend(ctx context.Context, userID string, k int) (*index.Result, error)
	Rebuild(ctx context.Context) (*index.RebuildResult, error)
	Health() recommend.Health
	Config() *recommend.Config
}

// CommentService is the part of comments.Service the handlers use.
type CommentService interface {
	Post(ctx context.Context, in comments.PostInput) (*comments.Comment, error)
	List(ctx context.Context, bookID string) ([]comments.Comment, error)
	Rating(ctx context.Context, bookID string) (*comments.BookRating, error)
}

// Handler serves the HTTP API.
type Handler struct {
	index    IndexService
	comments CommentService
	logger   zerolog.Logger

	startTime time.Time

	// background rebuilds started with ?async=true
	background sync.WaitGroup
}

// NewHandler creates a handler. comments may be nil, in which case the
// comment routes are not registered.
func NewHandler(idx IndexService, cs CommentService, logger zerolog.Logger) *Handler {
	return &Handler{
		index:     idx,
		comments:  cs,
		logger:    logger.With().Str("component", "api").Logger(),
		startTime: time.Now(),
	}
}

// Wait blocks until background rebuilds have finished.
func (h *Handler) Wait() {
	h.background.Wait()
}
