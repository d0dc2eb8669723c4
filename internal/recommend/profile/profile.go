// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

// Package profile derives a user's query vector from their interaction history.
package profile

import (
	"context"

	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/recommend/tfidf"
)

// InteractionSource reads a user's interaction history.
type InteractionSource interface {
	// InteractionsForUser returns every interaction of userID in any order.
	// Connectivity failures must wrap recommend.ErrSourceUnavailable.
	InteractionsForUser(ctx context.Context, userID string) ([]recommend.Interaction, error)
}

// Build averages the matrix rows of the items userID interacted with.
//
// Interactions of other users and interactions whose BookID is not in
// idToRow are dropped. When nothing resolves, ok is false and the caller
// should fall back to a non-personalized ranking. The returned rows lists the
// distinct resolved rows in first-seen order. The mean is taken over
// already-normalized rows and is not renormalized.
func Build(userID string, interactions []recommend.Interaction, idToRow map[string]int, m *tfidf.Matrix) (vec tfidf.Vector, rows []int, ok bool) {
	var resolved []int
	seen := make(map[int]struct{})
	for i := range interactions {
		in := &interactions[i]
		if in.UserID != userID {
			continue
		}
		row, found := idToRow[in.BookID]
		if !found || row >= m.NumRows() {
			continue
		}
		resolved = append(resolved, row)
		if _, dup := seen[row]; !dup {
			seen[row] = struct{}{}
			rows = append(rows, row)
		}
	}

	if len(resolved) == 0 {
		return tfidf.Vector{}, nil, false
	}

	sum := make(map[int]float64)
	for _, row := range resolved {
		r := m.Row(row)
		for j, col := range r.Indices {
			sum[col] += r.Values[j]
		}
	}
	n := float64(len(resolved))
	for col := range sum {
		sum[col] /= n
	}

	return tfidf.NewVector(sum), rows, true
}
