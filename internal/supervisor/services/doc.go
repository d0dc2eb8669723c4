// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

/*
Package services adapts long-running components to suture.Service.

HTTPServerService turns the ListenAndServe/Shutdown pair of *http.Server
into a context-driven Serve, draining connections with its own deadline
once the supervisor context is canceled.

RebuildService owns the index lifecycle at runtime. It makes the index
ready on startup (loading the persisted snapshot or building a new one),
retries while the document source is unavailable, and rebuilds on a fixed
interval afterwards. Rebuild failures never stop the service: the previous
snapshot keeps serving.

	tree.AddIndexService(services.NewRebuildService(manager, services.RebuildServiceConfig{
	    RebuildInterval: cfg.Index.RebuildInterval,
	}, logger))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout, logger))
*/
package services
