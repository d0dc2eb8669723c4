// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

/*
Package main is the entry point of the bookrec server.

bookrec answers "books similar to this one" and "books for this user" from
a TF-IDF index built over the catalog's text fields, and collects
sentiment-scored reader comments.

# Startup

 1. Configuration: koanf v2 (defaults, then config.yaml, then environment)
 2. Logging: zerolog, JSON or console
 3. Document source: MongoDB or DuckDB over CSV files, behind a circuit breaker
 4. Artifact store: versioned file snapshots, BadgerDB, or none
 5. Index manager, plus an optional in-memory or Redis result cache
 6. Comment service, with the sentiment classifier if SENTIMENT_URL is set
 7. Chi router and HTTP server
 8. Supervisor tree: rebuild scheduler and HTTP server

The listener starts before the index is ready. Until the first snapshot is
loaded or built, query endpoints answer 503 INDEX_NOT_READY and
/api/v1/health/ready reports not ready.

# Configuration

	HTTP_PORT=8000
	LOG_LEVEL=info               # debug, info, warn, error
	LOG_FORMAT=json              # json or console

	SOURCE_TYPE=mongo            # mongo or duckdb
	MONGO_URI=mongodb://localhost:27017
	MONGO_DATABASE=bookstore
	BOOKS_CSV=data/books.csv     # duckdb only
	INTERACTIONS_CSV=data/interactions.csv

	INDEX_STORAGE=file           # file, badger or none
	INDEX_ARTIFACT_DIR=/data/index
	INDEX_REBUILD_INTERVAL=0     # 0 disables scheduled rebuilds
	INDEX_REBUILD_ON_STARTUP=false

	CACHE_BACKEND=memory         # none, memory or redis
	REDIS_ADDR=localhost:6379

	SENTIMENT_URL=http://sentiment:8001

A config file is searched in ./config.yaml, ./config.yml and
/etc/bookrec/, or taken from CONFIG_PATH.

# Signals

SIGINT and SIGTERM cancel the root context. The HTTP server drains for
SHUTDOWN_TIMEOUT, an in-flight asynchronous rebuild is awaited, then the
cache, artifact store and source connection are closed.
*/
package main
