// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package validation

// SimilarRequest is the input of GET /api/v1/similar/{itemID}.
type SimilarRequest struct {
	ItemID string `path:"itemID" validate:"required,max=128,identifier"`
	K      int    `query:"k" validate:"min=1"`
}

// RecommendRequest is the input of GET /api/v1/recommendations/{userID}.
type RecommendRequest struct {
	UserID string `path:"userID" validate:"required,max=128,identifier"`
	K      int    `query:"k" validate:"min=1"`
}

// CommentRequest is the body of POST /api/v1/books/{bookID}/comments.
type CommentRequest struct {
	UserID string `json:"user_id" validate:"omitempty,max=128,identifier"`
	Text   string `json:"text" validate:"required,max=10000"`
	Rating *int   `json:"rating" validate:"omitempty,min=1,max=5"`
}

// BookRequest identifies a book in a path.
type BookRequest struct {
	BookID string `path:"bookID" validate:"required,max=128,identifier"`
}
