// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Source    SourceConfig    `koanf:"source"`
	Index     IndexConfig     `koanf:"index"`
	Cache     CacheConfig     `koanf:"cache"`
	Sentiment SentimentConfig `koanf:"sentiment"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// SlowRequestThreshold logs requests slower than this at warn level.
	SlowRequestThreshold time.Duration `koanf:"slow_request_threshold"`

	Environment string `koanf:"environment"` // development, staging, production
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Source types.
const (
	SourceMongo  = "mongo"
	SourceDuckDB = "duckdb"
)

// SourceConfig selects where books, interactions and comments live.
type SourceConfig struct {
	// Type is mongo or duckdb.
	Type string `koanf:"type"`

	// Timeout bounds each source query.
	Timeout time.Duration `koanf:"timeout"`

	Mongo  MongoConfig  `koanf:"mongo"`
	DuckDB DuckDBConfig `koanf:"duckdb"`
}

// MongoConfig holds the MongoDB connection settings. URI is also read from
// MONGO_URI.
type MongoConfig struct {
	URI                    string `koanf:"uri"`
	Database               string `koanf:"database"`
	BooksCollection        string `koanf:"books_collection"`
	InteractionsCollection string `koanf:"interactions_collection"`
	CommentsCollection     string `koanf:"comments_collection"`
}

// DuckDBConfig points the offline source at CSV exports.
type DuckDBConfig struct {
	BooksCSV        string `koanf:"books_csv"`
	InteractionsCSV string `koanf:"interactions_csv"`

	// Path is the DuckDB file that stores comments. Empty keeps them in memory.
	Path string `koanf:"path"`
}

// Storage backends for index artifacts.
const (
	StorageFile   = "file"
	StorageBadger = "badger"
	StorageNone   = "none"
)

// IndexConfig tunes the TF-IDF index and its lifecycle.
type IndexConfig struct {
	MaxFeatures       int `koanf:"max_features"`
	DefaultSimilarK   int `koanf:"default_similar_k"`
	DefaultRecommendK int `koanf:"default_recommend_k"`
	MaxK              int `koanf:"max_k"`

	// Storage is file, badger or none.
	Storage      string `koanf:"storage"`
	ArtifactDir  string `koanf:"artifact_dir"`
	KeepVersions int    `koanf:"keep_versions"`

	// RebuildInterval schedules periodic rebuilds. Zero disables them.
	RebuildInterval  time.Duration `koanf:"rebuild_interval"`
	RebuildOnStartup bool          `koanf:"rebuild_on_startup"`
	RebuildTimeout   time.Duration `koanf:"rebuild_timeout"`

	ExcludeInteracted     bool `koanf:"exclude_interacted"`
	FallbackOnSourceError bool `koanf:"fallback_on_source_error"`
}

// CacheConfig configures the query result cache.
type CacheConfig struct {
	// Backend is none, memory or redis.
	Backend    string        `koanf:"backend"`
	TTL        time.Duration `koanf:"ttl"`
	MaxEntries int           `koanf:"max_entries"`

	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	RedisPrefix   string        `koanf:"redis_prefix"`
	RedisTimeout  time.Duration `koanf:"redis_timeout"`
}

// SentimentConfig points at the external sentiment classifier. An empty URL
// stores comments without sentiment.
type SentimentConfig struct {
	URL       string        `koanf:"url"`
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit"`
	Burst     int           `koanf:"burst"`
}

// BreakerConfig configures the circuit breaker in front of the source.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads configuration from, in increasing precedence:
//  1. Built-in defaults
//  2. Config file (CONFIG_PATH, or config.yaml in the default paths)
//  3. Environment variables
//
// See LoadWithKoanf for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
