// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

/*
Package config loads and validates the service configuration.

Configuration is layered with koanf v2, each layer overriding the previous:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: $CONFIG_PATH, or the first of config.yaml,
    config.yml, /etc/bookrec/config.yaml, /etc/bookrec/config.yml
 3. Environment variables listed in envMappings; others are ignored

# Sections

  - server: HTTP listener, timeouts, environment
  - logging: zerolog level, format, caller
  - source: mongo or duckdb, with connection settings
  - index: TF-IDF size, default and maximum k, artifact storage, rebuild schedule
  - cache: none, memory or redis result cache
  - sentiment: external classifier URL, timeout, outbound rate limit
  - breaker: circuit breaker in front of the source
  - security: CORS origins and API rate limits

# Environment Variables

Commonly used:

  - MONGO_URI: MongoDB connection string (required for SOURCE_TYPE=mongo)
  - SOURCE_TYPE: mongo (default) or duckdb
  - BOOKS_CSV, INTERACTIONS_CSV, DUCKDB_PATH: offline source
  - HTTP_PORT: listen port (default: 8000)
  - INDEX_STORAGE: file (default), badger or none
  - INDEX_ARTIFACT_DIR: where snapshots are persisted (default: /data/index)
  - INDEX_REBUILD_INTERVAL: periodic rebuild, e.g. 6h (default: disabled)
  - CACHE_BACKEND: none, memory (default) or redis
  - SENTIMENT_URL: base URL of the classifier; empty disables sentiment
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal().Err(err).Msg("invalid configuration")
	}
*/
package config
