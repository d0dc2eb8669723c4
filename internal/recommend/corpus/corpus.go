// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

// Package corpus loads catalog records from a document source and maps them
// into the ordered, strongly-typed Corpus the indexer consumes.
package corpus

import (
	"github.com/tomtom215/bookrec/internal/recommend"
)

// Corpus is an ordered sequence of items. Position in Items is the row index
// into the term-weight matrix.
//
// Duplicate ids resolve last-write-wins: IDToRow points at the final row
// carrying the id. Earlier rows stay indexed and can still appear in
// rankings, but cannot be addressed by id.
type Corpus struct {
	Items   []recommend.Item
	IDToRow map[string]int
}

// New builds a Corpus and its id-to-row mapping.
func New(items []recommend.Item) *Corpus {
	idToRow := make(map[string]int, len(items))
	for i := range items {
		idToRow[items[i].ID] = i
	}
	return &Corpus{Items: items, IDToRow: idToRow}
}

// Len returns the number of rows.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// Texts returns the indexer input of every item, in row order.
func (c *Corpus) Texts() []string {
	texts := make([]string, len(c.Items))
	for i := range c.Items {
		texts[i] = c.Items[i].Text()
	}
	return texts
}

// Lookup resolves an item id to its row.
func (c *Corpus) Lookup(id string) (int, bool) {
	if c == nil {
		return 0, false
	}
	row, ok := c.IDToRow[id]
	return row, ok
}

// Duplicates returns the number of rows shadowed by a later row with the same id.
func (c *Corpus) Duplicates() int {
	return len(c.Items) - len(c.IDToRow)
}
