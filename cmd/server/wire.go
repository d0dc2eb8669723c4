// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookrec/internal/api"
	"github.com/tomtom215/bookrec/internal/cache"
	"github.com/tomtom215/bookrec/internal/comments"
	"github.com/tomtom215/bookrec/internal/config"
	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/recommend/corpus"
	"github.com/tomtom215/bookrec/internal/recommend/profile"
	"github.com/tomtom215/bookrec/internal/recommend/storage"
	"github.com/tomtom215/bookrec/internal/source"
)

// backend is a document source that also serves interactions and comments.
type backend interface {
	corpus.DocumentSource
	profile.InteractionSource
	comments.Store
}

// openBackend connects the configured document source behind a circuit breaker.
// The returned func releases the connection.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout the codebase
func openBackend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (backend, func(context.Context) error, error) {
	breaker := source.NewBreaker(cfg.Source.Type, source.BreakerConfig{
		MaxRequests:  cfg.Breaker.MaxRequests,
		Interval:     cfg.Breaker.Interval,
		Timeout:      cfg.Breaker.Timeout,
		MinRequests:  cfg.Breaker.MinRequests,
		FailureRatio: cfg.Breaker.FailureRatio,
	}, logger)

	switch cfg.Source.Type {
	case config.SourceMongo:
		m, err := source.ConnectMongo(ctx, source.MongoConfig{
			URI:                    cfg.Source.Mongo.URI,
			Database:               cfg.Source.Mongo.Database,
			BooksCollection:        cfg.Source.Mongo.BooksCollection,
			InteractionsCollection: cfg.Source.Mongo.InteractionsCollection,
			CommentsCollection:     cfg.Source.Mongo.CommentsCollection,
			Timeout:                cfg.Source.Timeout,
		}, breaker, logger)
		if err != nil {
			return nil, nil, err
		}
		return m, m.Close, nil

	case config.SourceDuckDB:
		d, err := source.OpenDuckDB(ctx, source.DuckDBConfig{
			BooksCSV:        cfg.Source.DuckDB.BooksCSV,
			InteractionsCSV: cfg.Source.DuckDB.InteractionsCSV,
			Path:            cfg.Source.DuckDB.Path,
			Timeout:         cfg.Source.Timeout,
		}, breaker, logger)
		if err != nil {
			return nil, nil, err
		}
		return d, func(context.Context) error { return d.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown source type %q", cfg.Source.Type)
	}
}

// openArtifactStore returns nil for StorageNone; snapshots then live only in memory.
func openArtifactStore(cfg *config.IndexConfig) (storage.ArtifactStore, error) {
	switch cfg.Storage {
	case config.StorageNone:
		return nil, nil
	case config.StorageBadger:
		return storage.OpenBadgerStore(cfg.ArtifactDir)
	case config.StorageFile, "":
		return storage.NewFileStore(cfg.ArtifactDir)
	default:
		return nil, fmt.Errorf("unknown index storage %q", cfg.Storage)
	}
}

func indexConfig(cfg *config.IndexConfig) *recommend.Config {
	return &recommend.Config{
		MaxFeatures:           cfg.MaxFeatures,
		DefaultSimilarK:       cfg.DefaultSimilarK,
		DefaultRecommendK:     cfg.DefaultRecommendK,
		MaxK:                  cfg.MaxK,
		RebuildTimeout:        cfg.RebuildTimeout,
		ExcludeInteracted:     cfg.ExcludeInteracted,
		FallbackOnSourceError: cfg.FallbackOnSourceError,
		KeepVersions:          cfg.KeepVersions,
	}
}

func cacheOptions(cfg *config.CacheConfig) cache.Options {
	return cache.Options{
		Backend:    cfg.Backend,
		TTL:        cfg.TTL,
		MaxEntries: cfg.MaxEntries,
		Redis: cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
			TTL:      cfg.TTL,
			Timeout:  cfg.RedisTimeout,
		},
	}
}

func middlewareConfig(cfg *config.SecurityConfig) *api.ChiMiddlewareConfig {
	mc := api.DefaultChiMiddlewareConfig()
	mc.CORSAllowedOrigins = cfg.CORSOrigins
	mc.RateLimitRequests = cfg.RateLimitReqs
	mc.RateLimitWindow = cfg.RateLimitWindow
	mc.RateLimitDisabled = cfg.RateLimitDisabled
	return mc
}
