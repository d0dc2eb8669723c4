// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

/*
Package cache provides the query result caches used by the index manager.

Three backends are available through NewResultCache:

  - "none": caching disabled, New returns nil
  - "memory": an in-process TTL cache with an entry limit
  - "redis": a shared cache in Redis, values encoded as JSON

Cache keys produced by the index embed the snapshot id, a uuid per build, so
entries from an older snapshot or from another instance sharing Redis are
never served. They simply age out.

Redis failures are logged and counted in cache_errors_total, then
treated as misses.
*/
package cache
