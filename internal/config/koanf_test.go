// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Source.Type != SourceMongo {
		t.Errorf("Source.Type = %q, want mongo", cfg.Source.Type)
	}
	if cfg.Source.Mongo.BooksCollection != "books" || cfg.Source.Mongo.InteractionsCollection != "interactions" {
		t.Errorf("unexpected collections: %+v", cfg.Source.Mongo)
	}
	if cfg.Index.MaxFeatures != 5000 {
		t.Errorf("Index.MaxFeatures = %d, want 5000", cfg.Index.MaxFeatures)
	}
	if cfg.Index.DefaultSimilarK != 4 || cfg.Index.DefaultRecommendK != 10 {
		t.Errorf("default k = %d/%d, want 4/10", cfg.Index.DefaultSimilarK, cfg.Index.DefaultRecommendK)
	}
	if !cfg.Index.ExcludeInteracted {
		t.Error("Index.ExcludeInteracted should default to true")
	}
	if cfg.Index.RebuildInterval != 0 {
		t.Errorf("Index.RebuildInterval = %v, want 0", cfg.Index.RebuildInterval)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"MONGO_URI", "source.mongo.uri"},
		{"mongo_uri", "source.mongo.uri"},
		{"SOURCE_TYPE", "source.type"},
		{"BOOKS_CSV", "source.duckdb.books_csv"},
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"INDEX_REBUILD_INTERVAL", "index.rebuild_interval"},
		{"CACHE_BACKEND", "cache.backend"},
		{"REDIS_ADDR", "cache.redis_addr"},
		{"SENTIMENT_URL", "sentiment.url"},
		{"BREAKER_FAILURE_RATIO", "breaker.failure_ratio"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.input); got != tt.expected {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

// Tests below use t.Setenv and cannot run in parallel.

func TestLoadWithKoanf_Env(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("INDEX_REBUILD_INTERVAL", "6h")
	t.Setenv("INDEX_EXCLUDE_INTERACTED", "false")
	t.Setenv("BREAKER_MAX_REQUESTS", "7")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}

	if cfg.Source.Mongo.URI != "mongodb://mongo:27017" {
		t.Errorf("Mongo.URI = %q", cfg.Source.Mongo.URI)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Index.RebuildInterval != 6*time.Hour {
		t.Errorf("RebuildInterval = %v, want 6h", cfg.Index.RebuildInterval)
	}
	if cfg.Index.ExcludeInteracted {
		t.Error("ExcludeInteracted should be overridden to false")
	}
	if cfg.Breaker.MaxRequests != 7 {
		t.Errorf("Breaker.MaxRequests = %d, want 7", cfg.Breaker.MaxRequests)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
}

func TestLoadWithKoanf_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
source:
  type: duckdb
  duckdb:
    books_csv: /srv/books.csv
index:
  max_features: 2000
  storage: badger
cache:
  backend: none
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}

	if cfg.Source.Type != SourceDuckDB || cfg.Source.DuckDB.BooksCSV != "/srv/books.csv" {
		t.Errorf("source = %+v", cfg.Source)
	}
	if cfg.Index.MaxFeatures != 2000 || cfg.Index.Storage != StorageBadger {
		t.Errorf("index = %+v", cfg.Index)
	}
	if cfg.Index.DefaultSimilarK != 4 {
		t.Errorf("unset file keys should keep defaults, DefaultSimilarK = %d", cfg.Index.DefaultSimilarK)
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("env should override file, Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadWithKoanf_InvalidFails(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("MONGO_URI", "")
	t.Setenv("SOURCE_TYPE", "mongo")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected validation error without MONGO_URI")
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 1234\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}
}
