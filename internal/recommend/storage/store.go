// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/recommend/tfidf"
)

// Blob names of a snapshot.
const (
	BlobVectorizer = "tfidf_vectorizer"
	BlobMatrix     = "tfidf_matrix"
	BlobCorpus     = "books_meta"
)

// BlobNames lists every blob a complete snapshot must contain.
var BlobNames = []string{BlobVectorizer, BlobMatrix, BlobCorpus}

// ErrNoSnapshot is returned by Load when no complete, valid snapshot exists.
var ErrNoSnapshot = errors.New("no valid snapshot")

// Metadata describes a persisted snapshot.
type Metadata struct {
	// Version is the snapshot version (monotonically increasing).
	Version int `json:"version"`

	// SnapshotID uniquely identifies the build that produced the snapshot.
	SnapshotID string `json:"snapshot_id"`

	// BuiltAt is when the snapshot was fitted.
	BuiltAt time.Time `json:"built_at"`

	// SavedAt is when the snapshot was persisted.
	SavedAt time.Time `json:"saved_at"`

	ItemCount      int   `json:"item_count"`
	VocabularySize int   `json:"vocabulary_size"`
	BuildDuration  int64 `json:"build_duration_ms"`

	// Checksums holds the SHA-256 of every uncompressed blob.
	Checksums map[string]string `json:"checksums"`

	// SizeBytes is the total compressed size of the blobs.
	SizeBytes int64 `json:"size_bytes"`
}

// Artifacts is the in-memory form of a snapshot.
type Artifacts struct {
	Metadata   Metadata
	Vocabulary *tfidf.Vocabulary
	Matrix     *tfidf.Matrix
	Items      []recommend.Item
}

// ArtifactStore persists snapshots as a unit.
type ArtifactStore interface {
	// Save writes a as the next version and returns the stored metadata.
	Save(ctx context.Context, a *Artifacts) (Metadata, error)

	// Load returns the latest complete snapshot, or an error wrapping
	// ErrNoSnapshot when none is usable.
	Load(ctx context.Context) (*Artifacts, error)

	// Latest returns the metadata of the newest committed snapshot.
	Latest() (Metadata, bool)

	// Prune removes all but the newest keep versions.
	Prune(ctx context.Context, keep int) error

	// Close releases backend resources.
	Close() error
}
