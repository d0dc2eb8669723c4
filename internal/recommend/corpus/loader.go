// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package corpus

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookrec/internal/recommend"
)

// Record is a loosely-typed document as returned by a store.
type Record map[string]any

// DocumentSource bulk-reads catalog records.
type DocumentSource interface {
	// Documents returns every catalog record. Connectivity failures must wrap
	// recommend.ErrSourceUnavailable.
	Documents(ctx context.Context) ([]Record, error)
}

// Field names read from each record.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldAuthor      = "author"
	FieldGenre       = "genre"
	FieldImage       = "image"
)

// Loader produces a Corpus from a DocumentSource.
type Loader struct {
	source DocumentSource
	logger zerolog.Logger
}

// NewLoader creates a Loader.
func NewLoader(source DocumentSource, logger zerolog.Logger) *Loader {
	return &Loader{
		source: source,
		logger: logger.With().Str("component", "corpus").Logger(),
	}
}

// Load reads all records and maps them into a Corpus. A reachable source with
// zero documents yields an empty corpus and no error.
func (l *Loader) Load(ctx context.Context) (*Corpus, error) {
	start := time.Now()

	records, err := l.source.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	items := make([]recommend.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, ToItem(rec))
	}

	c := New(items)
	if dups := c.Duplicates(); dups > 0 {
		l.logger.Warn().Int("duplicates", dups).Msg("duplicate item ids, last occurrence wins")
	}

	l.logger.Info().
		Int("items", c.Len()).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("corpus loaded")

	return c, nil
}

// ToItem maps a record into an Item, coercing every field to a string.
func ToItem(rec Record) recommend.Item {
	return recommend.Item{
		ID:          Stringify(rec[FieldID]),
		Title:       Stringify(rec[FieldTitle]),
		Description: Stringify(rec[FieldDescription]),
		Author:      Stringify(rec[FieldAuthor]),
		Genre:       Stringify(rec[FieldGenre]),
		Image:       Stringify(rec[FieldImage]),
	}
}

// Stringify converts a store value to a string. Nil becomes "", lists are
// joined with spaces and object ids use their hex form.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []string:
		return strings.Join(val, " ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, e := range val {
			parts = append(parts, Stringify(e))
		}
		return strings.Join(parts, " ")
	case interface{ Hex() string }:
		return val.Hex()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
