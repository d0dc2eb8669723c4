// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ErrMissingMongoURI is returned when the mongo source is selected without
// a connection string.
var ErrMissingMongoURI = errors.New("MONGO_URI is required when SOURCE_TYPE=mongo")

// Validate checks the configuration for invalid or missing values.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateSource,
		c.validateIndex,
		c.validateCache,
		c.validateSentiment,
		c.validateBreaker,
		c.validateSecurity,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

var validLogLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}

// validateLogging validates the log level and format
func (c *Config) validateLogging() error {
	if !slices.Contains(validLogLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", "))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}

// validateSource validates the selected source and its settings
func (c *Config) validateSource() error {
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("SOURCE_TIMEOUT must be positive")
	}

	switch c.Source.Type {
	case SourceMongo:
		if c.Source.Mongo.URI == "" {
			return ErrMissingMongoURI
		}
		if err := validateMongoURI(c.Source.Mongo.URI); err != nil {
			return err
		}
		if c.Source.Mongo.Database == "" {
			return fmt.Errorf("MONGO_DATABASE is required")
		}
		m := c.Source.Mongo
		if m.BooksCollection == "" || m.InteractionsCollection == "" || m.CommentsCollection == "" {
			return fmt.Errorf("mongo collection names must not be empty")
		}
	case SourceDuckDB:
		if c.Source.DuckDB.BooksCSV == "" {
			return fmt.Errorf("BOOKS_CSV is required when SOURCE_TYPE=duckdb")
		}
	default:
		return fmt.Errorf("SOURCE_TYPE must be %s or %s, got %q", SourceMongo, SourceDuckDB, c.Source.Type)
	}
	return nil
}

// validateIndex validates index tuning and storage
func (c *Config) validateIndex() error {
	ix := c.Index
	if ix.MaxFeatures < 1 {
		return fmt.Errorf("INDEX_MAX_FEATURES must be positive")
	}
	if ix.MaxK < 0 {
		return fmt.Errorf("INDEX_MAX_K must not be negative (0 disables the cap)")
	}
	if ix.DefaultSimilarK < 1 {
		return fmt.Errorf("INDEX_DEFAULT_SIMILAR_K must be positive")
	}
	if ix.DefaultRecommendK < 1 {
		return fmt.Errorf("INDEX_DEFAULT_RECOMMEND_K must be positive")
	}
	if ix.RebuildTimeout <= 0 {
		return fmt.Errorf("INDEX_REBUILD_TIMEOUT must be positive")
	}
	if ix.RebuildInterval < 0 {
		return fmt.Errorf("INDEX_REBUILD_INTERVAL must not be negative")
	}

	switch ix.Storage {
	case StorageNone:
		return nil
	case StorageFile, StorageBadger:
		if ix.ArtifactDir == "" {
			return fmt.Errorf("INDEX_ARTIFACT_DIR is required for %s storage", ix.Storage)
		}
		if ix.KeepVersions < 1 {
			return fmt.Errorf("INDEX_KEEP_VERSIONS must be at least 1")
		}
		return nil
	default:
		return fmt.Errorf("INDEX_STORAGE must be one of: %s, %s, %s", StorageFile, StorageBadger, StorageNone)
	}
}

// validateCache validates the result cache backend
func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "none":
		return nil
	case "memory":
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("CACHE_MAX_ENTRIES must be positive")
		}
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be none, memory or redis, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	return nil
}

// validateSentiment validates the optional sentiment classifier
func (c *Config) validateSentiment() error {
	if c.Sentiment.URL == "" {
		return nil
	}
	if err := validateHTTPURL(c.Sentiment.URL, "SENTIMENT_URL"); err != nil {
		return err
	}
	if c.Sentiment.RateLimit < 0 {
		return fmt.Errorf("SENTIMENT_RATE_LIMIT must not be negative")
	}
	return nil
}

// validateBreaker validates circuit breaker settings
func (c *Config) validateBreaker() error {
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive")
	}
	return nil
}

// validateSecurity validates CORS and rate limiting
func (c *Config) validateSecurity() error {
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateCORS rejects wildcard CORS in production.
func (c *Config) validateCORS() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production; " +
			"set specific origins, e.g. CORS_ORIGINS=https://shop.example.com")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	return slices.Contains(c.Security.CORSOrigins, "*")
}

// ShouldWarnAboutCORS reports whether CORS allows any origin, which should
// be logged at startup.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}
