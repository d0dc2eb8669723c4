// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

/*
Package supervisor runs bookrec's long-lived services under suture v4.

# Overview

	bookrec
	├── index-layer
	│   └── RebuildService     (startup load/build, scheduled rebuilds)
	└── api-layer
	    └── HTTPServerService  (chi router, graceful drain)

Each layer is its own suture.Supervisor, so restart backoff in one layer
does not stop the other. While the rebuild scheduler is crash-looping the
API keeps answering from the last published snapshot, or with
INDEX_NOT_READY if none was ever published.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddIndexService(services.NewRebuildService(manager, rebuildCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout, logger))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh
	if report, _ := tree.UnstoppedServiceReport(); len(report) > 0 {
	    // log the stragglers
	}

# Failure Handling

Suture keeps a decaying failure counter per supervisor. Once it passes
FailureThreshold, restarts wait FailureBackoff. Defaults are suture's own:
5 failures, 30s decay, 15s backoff, 10s shutdown timeout.

Supervisor events (service start, panic, backoff, timeout) are logged
through sutureslog onto the slog bridge in the logging package, so they
end up in the same zerolog stream as the rest of the process.

# What Is Not Supervised

The document source clients (MongoDB, DuckDB) are libraries, not
services. Their failures are absorbed by the circuit breaker in the
source package and surface as failed rebuilds, which RebuildService
retries.
*/
package supervisor
