// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// validConfig returns defaults that pass validation.
func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Source.Mongo.URI = "mongodb://localhost:27017"
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	t.Parallel()

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("defaults with a mongo uri should validate: %v", err)
	}
}

func TestValidate_MissingMongoURI(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	err := cfg.Validate()
	if !errors.Is(err, ErrMissingMongoURI) {
		t.Fatalf("err = %v, want ErrMissingMongoURI", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"unknown source", func(c *Config) { c.Source.Type = "postgres" }, "SOURCE_TYPE"},
		{"mongo uri scheme", func(c *Config) { c.Source.Mongo.URI = "http://localhost" }, "MONGO_URI scheme"},
		{"mongo empty database", func(c *Config) { c.Source.Mongo.Database = "" }, "MONGO_DATABASE"},
		{"duckdb without csv", func(c *Config) {
			c.Source.Type = SourceDuckDB
			c.Source.DuckDB.BooksCSV = ""
		}, "BOOKS_CSV"},
		{"max features", func(c *Config) { c.Index.MaxFeatures = 0 }, "INDEX_MAX_FEATURES"},
		{"default k zero", func(c *Config) { c.Index.DefaultRecommendK = 0 }, "INDEX_DEFAULT_RECOMMEND_K"},
		{"negative k cap", func(c *Config) { c.Index.MaxK = -1 }, "INDEX_MAX_K"},
		{"unknown storage", func(c *Config) { c.Index.Storage = "s3" }, "INDEX_STORAGE"},
		{"keep versions", func(c *Config) { c.Index.KeepVersions = 0 }, "INDEX_KEEP_VERSIONS"},
		{"negative interval", func(c *Config) { c.Index.RebuildInterval = -time.Second }, "INDEX_REBUILD_INTERVAL"},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "memcached" }, "CACHE_BACKEND"},
		{"redis without addr", func(c *Config) {
			c.Cache.Backend = "redis"
			c.Cache.RedisAddr = ""
		}, "REDIS_ADDR"},
		{"sentiment url path", func(c *Config) { c.Sentiment.URL = "http://sentiment:8001/analyze" }, "SENTIMENT_URL"},
		{"failure ratio", func(c *Config) { c.Breaker.FailureRatio = 1.5 }, "BREAKER_FAILURE_RATIO"},
		{"wildcard cors in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"*"}
		}, "CORS_ORIGINS"},
		{"rate limit window", func(c *Config) { c.Security.RateLimitWindow = time.Millisecond }, "RATE_LIMIT_WINDOW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Accepts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"duckdb source", func(c *Config) {
			c.Source.Type = SourceDuckDB
			c.Source.Mongo.URI = ""
		}},
		{"srv uri", func(c *Config) { c.Source.Mongo.URI = "mongodb+srv://user:pw@cluster0.example.net/bookstore" }},
		{"no storage ignores dir", func(c *Config) {
			c.Index.Storage = StorageNone
			c.Index.ArtifactDir = ""
		}},
		{"no cache", func(c *Config) { c.Cache.Backend = "none" }},
		{"sentiment with trailing slash", func(c *Config) { c.Sentiment.URL = "http://sentiment:8001/" }},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}},
		{"wildcard cors in development", func(c *Config) { c.Security.CORSOrigins = []string{"*"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if cfg.ShouldWarnAboutCORS() {
		t.Error("empty origins should not warn")
	}
	cfg.Security.CORSOrigins = []string{"https://a.example", "*"}
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard origin should warn")
	}
}
