// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

// Package recommend holds the shared types, errors and configuration of the
// content-based recommendation engine.
//
// # Architecture
//
// The engine is split into leaf packages, each owning one stage:
//
//   - corpus: loads raw catalog records and maps them into typed Items
//   - tfidf: fits a bounded TF-IDF vocabulary and an L2-normalized sparse matrix
//   - similarity: ranks matrix rows against a query vector
//   - profile: averages a user's interacted rows into a query vector
//   - storage: persists snapshots as a versioned unit
//   - index: owns the serving snapshot and its lifecycle
//
// # Snapshots
//
// The vocabulary, matrix, corpus and id-to-row mapping are built together and
// published behind a single atomic pointer. Queries load the pointer once and
// never observe a partially rebuilt index.
//
// # Usage
//
//	mgr, err := index.NewManager(cfg, loader, interactions, store, logger)
//	if err := mgr.EnsureReady(ctx); err != nil { ... }
//	items, err := mgr.Similar(ctx, "b42", 4)
package recommend
