// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package models

import (
	"github.com/tomtom215/bookrec/internal/recommend"
)

// BookResponse is one ranked book.
type BookResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Genre       string  `json:"genre"`
	Description string  `json:"description"`
	Image       string  `json:"image,omitempty"`
	Score       float64 `json:"score"`
}

// NewBookResponses converts ranked items into response rows. The result is
// never nil so it encodes as [].
func NewBookResponses(items []recommend.ScoredItem) []BookResponse {
	out := make([]BookResponse, 0, len(items))
	for i := range items {
		it := &items[i]
		out = append(out, BookResponse{
			ID:          it.Item.ID,
			Title:       it.Item.Title,
			Author:      it.Item.Author,
			Genre:       it.Item.Genre,
			Description: it.Item.Description,
			Image:       it.Item.Image,
			Score:       it.Score,
		})
	}
	return out
}

// HealthResponse reports index readiness.
type HealthResponse struct {
	// Status is "ok" when a snapshot is served, "not_ready" otherwise.
	Status    string `json:"status"`
	Ready     bool   `json:"ready"`
	State     string `json:"state"`
	ItemCount int    `json:"item_count"`

	// NBooks duplicates ItemCount for older clients.
	NBooks  int    `json:"n_books"`
	Version int    `json:"version"`
	BuiltAt string `json:"built_at,omitempty"`
}

// NewHealthResponse converts an index health report.
func NewHealthResponse(h recommend.Health) HealthResponse {
	status := "not_ready"
	if h.Ready {
		status = "ok"
	}
	return HealthResponse{
		Status:    status,
		Ready:     h.Ready,
		State:     h.State,
		ItemCount: h.ItemCount,
		NBooks:    h.ItemCount,
		Version:   h.Version,
		BuiltAt:   h.BuiltAt,
	}
}

// RebuildResponse is the outcome of POST /api/v1/rebuild.
type RebuildResponse struct {
	// Status is "retrained" for a finished rebuild or "accepted" for an
	// asynchronous one.
	Status         string `json:"status"`
	NBooks         int    `json:"n_books,omitempty"`
	Version        int    `json:"version,omitempty"`
	VocabularySize int    `json:"vocabulary_size,omitempty"`
	DurationMS     int64  `json:"duration_ms,omitempty"`
}
