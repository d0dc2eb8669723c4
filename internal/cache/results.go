// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bookrec/internal/metrics"
	"github.com/tomtom215/bookrec/internal/recommend/index"
)

// MemoryResults stores query results in an in-process Cache.
type MemoryResults struct {
	cache *Cache
}

// NewMemoryResults wraps c as an index.ResultCache.
func NewMemoryResults(c *Cache) *MemoryResults {
	return &MemoryResults{cache: c}
}

// Get implements index.ResultCache.
func (m *MemoryResults) Get(_ context.Context, key string) (*index.Result, bool) {
	v, ok := m.cache.Get(key)
	var res *index.Result
	if ok {
		res, ok = v.(*index.Result)
	}
	metrics.RecordCacheLookup("memory", ok)
	return res, ok
}

// Set implements index.ResultCache.
func (m *MemoryResults) Set(_ context.Context, key string, r *index.Result) {
	m.cache.Set(key, r)
}

// RedisResults stores query results in Redis as JSON. Backend errors are
// logged and treated as misses so a Redis outage never fails a query.
type RedisResults struct {
	client  redis.UniversalClient
	prefix  string
	ttl     time.Duration
	timeout time.Duration
	logger  zerolog.Logger
}

// RedisConfig configures a Redis result cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces every key, e.g. "bookrec:".
	Prefix string
	TTL    time.Duration

	// Timeout bounds each Redis call.
	Timeout time.Duration
}

// NewRedisClient creates a Redis client and verifies connectivity.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.Timeout > 0 {
		opts.DialTimeout = cfg.Timeout
		opts.ReadTimeout = cfg.Timeout
		opts.WriteTimeout = cfg.Timeout
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // ping error takes precedence
		return nil, err
	}
	return client, nil
}

// NewRedisResults creates a Redis-backed index.ResultCache.
func NewRedisResults(client redis.UniversalClient, cfg RedisConfig, logger zerolog.Logger) *RedisResults {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 200 * time.Millisecond
	}
	return &RedisResults{
		client:  client,
		prefix:  cfg.Prefix,
		ttl:     cfg.TTL,
		timeout: cfg.Timeout,
		logger:  logger.With().Str("component", "cache").Str("backend", "redis").Logger(),
	}
}

// Get implements index.ResultCache.
func (r *RedisResults) Get(ctx context.Context, key string) (*index.Result, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheLookup("redis", false)
		return nil, false
	}
	if err != nil {
		metrics.CacheErrors.WithLabelValues("redis", "get").Inc()
		r.logger.Warn().Err(err).Str("key", key).Msg("redis get failed")
		return nil, false
	}

	var res index.Result
	if err := json.Unmarshal(data, &res); err != nil {
		metrics.CacheErrors.WithLabelValues("redis", "decode").Inc()
		r.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return nil, false
	}

	metrics.RecordCacheLookup("redis", true)
	return &res, true
}

// Set implements index.ResultCache.
func (r *RedisResults) Set(ctx context.Context, key string, res *index.Result) {
	data, err := json.Marshal(res)
	if err != nil {
		metrics.CacheErrors.WithLabelValues("redis", "encode").Inc()
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		metrics.CacheErrors.WithLabelValues("redis", "set").Inc()
		r.logger.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}

// Verify interface implementations at compile time
var (
	_ index.ResultCache = (*MemoryResults)(nil)
	_ index.ResultCache = (*RedisResults)(nil)
)
