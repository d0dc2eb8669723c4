// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

// Package storage persists index snapshots.
//
// A snapshot is three named blobs written and read as one unit:
//
//	tfidf_vectorizer  vocabulary terms and idf weights
//	tfidf_matrix      sparse L2-normalized term-weight rows
//	books_meta        the corpus items in row order
//
// Each blob is gob-encoded, checksummed with SHA-256 and gzip-compressed. A
// manifest holding the checksums is committed last, so a snapshot with a
// missing or corrupt blob is reported as ErrNoSnapshot and the caller
// rebuilds from the source.
//
// # Backends
//
//   - FileStore: one directory per version, snapshot_v{N}, staged in a
//     temporary directory and renamed into place
//   - BadgerStore: all blobs and the manifest written in a single badger
//     transaction
//
// Both backends keep monotonically increasing versions and support pruning
// old ones.
package storage
