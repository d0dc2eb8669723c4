// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package recommend

import "strings"

// Item is a catalog entry as seen by the indexer.
// Every field is a plain string; absent values are stored as "".
type Item struct {
	// ID is the stable identity key of the item.
	ID string `json:"id"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Image       string `json:"image"`
}

// Text returns the indexer input for the item: title, description, author,
// genre and image joined by single spaces, always in that order.
//
//nolint:gocritic // hugeParam: Item is passed by value for immutable semantics
func (i Item) Text() string {
	return strings.Join([]string{i.Title, i.Description, i.Author, i.Genre, i.Image}, " ")
}

// Interaction is a single user-item event from the interaction log.
type Interaction struct {
	// UserID identifies the user.
	UserID string `json:"user_id"`

	// BookID references Item.ID. Interactions whose BookID does not resolve
	// against the current snapshot are dropped.
	BookID string `json:"book_id"`

	// Type is the interaction kind (view, wishlist, purchase, ...). Optional.
	Type string `json:"type,omitempty"`

	// Weight is an optional strength value. Profiles use an unweighted mean.
	Weight float64 `json:"weight,omitempty"`
}

// ScoredItem is a ranked query result.
type ScoredItem struct {
	Item  Item    `json:"item"`
	Row   int     `json:"row"`
	Score float64 `json:"score"`
}

// Health summarizes the serving index.
type Health struct {
	Ready     bool   `json:"ready"`
	State     string `json:"state"`
	ItemCount int    `json:"item_count"`
	Version   int    `json:"version"`
	BuiltAt   string `json:"built_at,omitempty"`
}
