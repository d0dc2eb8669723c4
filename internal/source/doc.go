// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

/*
Package source reads the book catalog and interaction history and stores
comments.

Two backends implement the same set of interfaces:

  - Mongo: the production store. Books, interactions and comments live in
    three collections of one database.
  - DuckDB: an offline store for local runs and tests. Books and interactions
    are read straight from CSV files with read_csv_auto; comments go to a
    DuckDB table.

Both backends implement corpus.DocumentSource, profile.InteractionSource and
comments.Store. Every call goes through a circuit breaker; connectivity
failures and an open breaker surface as recommend.ErrSourceUnavailable.

Record normalization:

	_id      -> id (object ids as hex)
	authors  -> author
	genres   -> genre, with ';' separators replaced by spaces
*/
package source
