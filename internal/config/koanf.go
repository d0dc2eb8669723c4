// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/bookrec/config.yaml",
	"/etc/bookrec/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                 8000,
			Host:                 "0.0.0.0",
			Timeout:              30 * time.Second,
			ShutdownTimeout:      15 * time.Second,
			SlowRequestThreshold: 500 * time.Millisecond,
			Environment:          "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Source: SourceConfig{
			Type:    SourceMongo,
			Timeout: 10 * time.Second,
			Mongo: MongoConfig{
				URI:                    "",
				Database:               "bookstore",
				BooksCollection:        "books",
				InteractionsCollection: "interactions",
				CommentsCollection:     "comments",
			},
			DuckDB: DuckDBConfig{
				BooksCSV:        "data/books.csv",
				InteractionsCSV: "data/interactions.csv",
				Path:            "",
			},
		},
		Index: IndexConfig{
			MaxFeatures:           5000,
			DefaultSimilarK:       4,
			DefaultRecommendK:     10,
			MaxK:                  0, // no cap
			Storage:               StorageFile,
			ArtifactDir:           "/data/index",
			KeepVersions:          3,
			RebuildInterval:       0, // rebuild on demand only
			RebuildOnStartup:      false,
			RebuildTimeout:        10 * time.Minute,
			ExcludeInteracted:     true,
			FallbackOnSourceError: false,
		},
		Cache: CacheConfig{
			Backend:      "memory",
			TTL:          5 * time.Minute,
			MaxEntries:   10000,
			RedisAddr:    "localhost:6379",
			RedisDB:      0,
			RedisPrefix:  "bookrec:",
			RedisTimeout: 200 * time.Millisecond,
		},
		Sentiment: SentimentConfig{
			URL:       "",
			Timeout:   5 * time.Second,
			RateLimit: 10,
			Burst:     5,
		},
		Breaker: BreakerConfig{
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      30 * time.Second,
			MinRequests:  5,
			FailureRatio: 0.6,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{},
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in defaults
//  2. Config File: optional YAML config file
//  3. Environment Variables: override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first default
// path that exists, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Server
	"http_port":              "server.port",
	"http_host":              "server.host",
	"http_timeout":           "server.timeout",
	"shutdown_timeout":       "server.shutdown_timeout",
	"slow_request_threshold": "server.slow_request_threshold",
	"environment":            "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Source
	"source_type":                   "source.type",
	"source_timeout":                "source.timeout",
	"mongo_uri":                     "source.mongo.uri",
	"mongo_database":                "source.mongo.database",
	"mongo_books_collection":        "source.mongo.books_collection",
	"mongo_interactions_collection": "source.mongo.interactions_collection",
	"mongo_comments_collection":     "source.mongo.comments_collection",
	"books_csv":                     "source.duckdb.books_csv",
	"interactions_csv":              "source.duckdb.interactions_csv",
	"duckdb_path":                   "source.duckdb.path",

	// Index
	"index_max_features":             "index.max_features",
	"index_default_similar_k":        "index.default_similar_k",
	"index_default_recommend_k":      "index.default_recommend_k",
	"index_max_k":                    "index.max_k",
	"index_storage":                  "index.storage",
	"index_artifact_dir":             "index.artifact_dir",
	"index_keep_versions":            "index.keep_versions",
	"index_rebuild_interval":         "index.rebuild_interval",
	"index_rebuild_on_startup":       "index.rebuild_on_startup",
	"index_rebuild_timeout":          "index.rebuild_timeout",
	"index_exclude_interacted":       "index.exclude_interacted",
	"index_fallback_on_source_error": "index.fallback_on_source_error",

	// Cache
	"cache_backend":     "cache.backend",
	"cache_ttl":         "cache.ttl",
	"cache_max_entries": "cache.max_entries",
	"redis_addr":        "cache.redis_addr",
	"redis_password":    "cache.redis_password",
	"redis_db":          "cache.redis_db",
	"redis_prefix":      "cache.redis_prefix",
	"redis_timeout":     "cache.redis_timeout",

	// Sentiment
	"sentiment_url":        "sentiment.url",
	"sentiment_timeout":    "sentiment.timeout",
	"sentiment_rate_limit": "sentiment.rate_limit",
	"sentiment_burst":      "sentiment.burst",

	// Circuit breaker
	"breaker_max_requests":  "breaker.max_requests",
	"breaker_interval":      "breaker.interval",
	"breaker_timeout":       "breaker.timeout",
	"breaker_min_requests":  "breaker.min_requests",
	"breaker_failure_ratio": "breaker.failure_ratio",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - MONGO_URI -> source.mongo.uri
//   - HTTP_PORT -> server.port
//   - CACHE_BACKEND -> cache.backend
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
