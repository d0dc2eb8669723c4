// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package index

import (
	"time"

	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/recommend/corpus"
	"github.com/tomtom215/bookrec/internal/recommend/similarity"
	"github.com/tomtom215/bookrec/internal/recommend/storage"
	"github.com/tomtom215/bookrec/internal/recommend/tfidf"
)

// Snapshot is an immutable, versioned bundle of vocabulary, matrix and corpus.
// It is never mutated after publication.
type Snapshot struct {
	Version    int
	SnapshotID string
	BuiltAt    time.Time
	Vocabulary *tfidf.Vocabulary
	Matrix     *tfidf.Matrix
	Corpus     *corpus.Corpus
}

// ItemCount returns the number of indexed items.
func (s *Snapshot) ItemCount() int { return s.Corpus.Len() }

// hits maps ranked rows to scored items.
func (s *Snapshot) hits(hits []similarity.Hit) []recommend.ScoredItem {
	out := make([]recommend.ScoredItem, len(hits))
	for i, h := range hits {
		out[i] = recommend.ScoredItem{Item: s.Corpus.Items[h.Row], Row: h.Row, Score: h.Score}
	}
	return out
}

// artifacts converts the snapshot into its persisted form.
func (s *Snapshot) artifacts(buildDuration time.Duration) *storage.Artifacts {
	return &storage.Artifacts{
		Metadata: storage.Metadata{
			SnapshotID:     s.SnapshotID,
			BuiltAt:        s.BuiltAt,
			ItemCount:      s.Corpus.Len(),
			VocabularySize: s.Vocabulary.Len(),
			BuildDuration:  buildDuration.Milliseconds(),
		},
		Vocabulary: s.Vocabulary,
		Matrix:     s.Matrix,
		Items:      s.Corpus.Items,
	}
}

// fromArtifacts rebuilds a snapshot, including its id-to-row mapping, from
// persisted artifacts.
func fromArtifacts(a *storage.Artifacts) *Snapshot {
	return &Snapshot{
		Version:    a.Metadata.Version,
		SnapshotID: a.Metadata.SnapshotID,
		BuiltAt:    a.Metadata.BuiltAt,
		Vocabulary: a.Vocabulary,
		Matrix:     a.Matrix,
		Corpus:     corpus.New(a.Items),
	}
}
