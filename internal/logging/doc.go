// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

/*
Package logging provides the process-wide zerolog logger.

Init configures the global logger from the logging section of the
configuration. Components take a zerolog.Logger by value and derive a
component logger from it:

	logger := logging.WithComponent("index")
	mgr, err := index.NewManager(cfg, loader, source, store, logger)

HTTP handlers log through the request context, which carries the request
id and a correlation id set by the API middleware:

	logging.Ctx(r.Context()).Info().Str("book_id", id).Msg("comment stored")

NewSlogHandler bridges log/slog users (the suture supervisor via
sutureslog) onto the same zerolog output.

Always terminate event chains with Msg or Send; an unterminated event is
never written.
*/
package logging
