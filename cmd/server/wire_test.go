// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookrec/internal/config"
	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/recommend/storage"
)

func TestOpenArtifactStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		storage string
		wantNil bool
		wantErr bool
	}{
		{"none", config.StorageNone, true, false},
		{"file", config.StorageFile, false, false},
		{"empty defaults to file", "", false, false},
		{"badger", config.StorageBadger, false, false},
		{"unknown", "s3", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store, err := openArtifactStore(&config.IndexConfig{Storage: tt.storage, ArtifactDir: t.TempDir()})
			if (err != nil) != tt.wantErr {
				t.Fatalf("openArtifactStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if (store == nil) != tt.wantNil {
				t.Fatalf("openArtifactStore() store = %v, wantNil %v", store, tt.wantNil)
			}
			if store != nil {
				if err := store.Close(); err != nil {
					t.Errorf("Close() error = %v", err)
				}
			}
		})
	}
}

func TestOpenArtifactStore_FileIsVersioned(t *testing.T) {
	t.Parallel()

	store, err := openArtifactStore(&config.IndexConfig{Storage: config.StorageFile, ArtifactDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, ok := store.(*storage.FileStore); !ok {
		t.Fatalf("store is %T, want *storage.FileStore", store)
	}
	if _, ok := store.Latest(); ok {
		t.Error("fresh store reports a latest snapshot")
	}
}

func TestOpenBackend_UnknownType(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Source: config.SourceConfig{Type: "postgres"}}
	if _, _, err := openBackend(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected an error for an unknown source type")
	}
}

func TestOpenBackend_UnreachableMongo(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Source: config.SourceConfig{
		Type:    config.SourceMongo,
		Timeout: time.Second,
		Mongo: config.MongoConfig{
			URI:                    "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200",
			Database:               "bookstore",
			BooksCollection:        "books",
			InteractionsCollection: "interactions",
			CommentsCollection:     "comments",
		},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	src, closeSource, err := openBackend(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("openBackend: %v", err)
	}
	defer closeSource(context.Background()) //nolint:errcheck // test cleanup

	if _, err := src.Documents(ctx); !errors.Is(err, recommend.ErrSourceUnavailable) {
		t.Errorf("Documents err = %v, want ErrSourceUnavailable", err)
	}
}

func TestIndexConfig(t *testing.T) {
	t.Parallel()

	ic := &config.IndexConfig{
		MaxFeatures:       5000,
		DefaultSimilarK:   4,
		DefaultRecommendK: 10,
		MaxK:              100,
		KeepVersions:      3,
		RebuildTimeout:    10 * time.Minute,
		ExcludeInteracted: true,
	}
	rc := indexConfig(ic)
	if err := rc.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if rc.MaxK != 100 || rc.KeepVersions != 3 || !rc.ExcludeInteracted || rc.FallbackOnSourceError {
		t.Errorf("indexConfig() = %+v", rc)
	}
}

func TestMiddlewareConfig(t *testing.T) {
	t.Parallel()

	mc := middlewareConfig(&config.SecurityConfig{
		RateLimitReqs:     7,
		RateLimitWindow:   time.Second,
		RateLimitDisabled: true,
		CORSOrigins:       []string{"https://books.example"},
	})
	if mc.RateLimitRequests != 7 || mc.RateLimitWindow != time.Second || !mc.RateLimitDisabled {
		t.Errorf("rate limit not copied: %+v", mc)
	}
	if len(mc.CORSAllowedOrigins) != 1 || mc.CORSAllowedOrigins[0] != "https://books.example" {
		t.Errorf("CORSAllowedOrigins = %v", mc.CORSAllowedOrigins)
	}
	if len(mc.CORSAllowedMethods) == 0 {
		t.Error("default CORS methods were dropped")
	}
}
