// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package source

import (
	"strconv"
	"strings"

	"github.com/tomtom215/bookrec/internal/recommend/corpus"
)

// Alternate field names accepted from stores and CSV headers.
const (
	fieldMongoID = "_id"
	fieldAuthors = "authors"
	fieldGenres  = "genres"
)

// normalizeRecord maps store-specific field names onto the corpus field set.
// The store primary key always becomes the item id; for the other fields the
// canonical name wins over its alias.
func normalizeRecord(rec corpus.Record) corpus.Record {
	if v, ok := rec[fieldMongoID]; ok {
		rec[corpus.FieldID] = v
	}
	if _, ok := rec[corpus.FieldAuthor]; !ok {
		if v, ok := rec[fieldAuthors]; ok {
			rec[corpus.FieldAuthor] = v
		}
	}
	if _, ok := rec[corpus.FieldGenre]; !ok {
		if v, ok := rec[fieldGenres]; ok {
			rec[corpus.FieldGenre] = v
		}
	}
	if g, ok := rec[corpus.FieldGenre].(string); ok {
		rec[corpus.FieldGenre] = strings.ReplaceAll(g, ";", " ")
	}
	return rec
}

// parseWeight reads an interaction weight stored as a number or a numeric
// string. Anything else weighs zero.
func parseWeight(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case int:
		return float64(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
