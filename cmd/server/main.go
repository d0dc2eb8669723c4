// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/bookrec/internal/api"
	"github.com/tomtom215/bookrec/internal/cache"
	"github.com/tomtom215/bookrec/internal/comments"
	"github.com/tomtom215/bookrec/internal/config"
	"github.com/tomtom215/bookrec/internal/logging"
	"github.com/tomtom215/bookrec/internal/recommend/corpus"
	"github.com/tomtom215/bookrec/internal/recommend/index"
	"github.com/tomtom215/bookrec/internal/sentiment"
	"github.com/tomtom215/bookrec/internal/supervisor"
	"github.com/tomtom215/bookrec/internal/supervisor/services"
)

const connectTimeout = 30 * time.Second

//nolint:gocyclo // sequential wiring
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()

	logger.Info().
		Str("source", cfg.Source.Type).
		Str("index_storage", cfg.Index.Storage).
		Str("cache", cfg.Cache.Backend).
		Str("environment", cfg.Server.Environment).
		Msg("Starting bookrec")

	if cfg.ShouldWarnAboutCORS() {
		logger.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); restrict it outside development")
	}
	if cfg.Security.RateLimitDisabled {
		logger.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, connectTimeout)
	src, closeSource, err := openBackend(connectCtx, cfg, logger)
	connectCancel()
	if err != nil {
		logger.Fatal().Err(err).Str("source", cfg.Source.Type).Msg("Failed to open document source")
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := closeSource(closeCtx); err != nil {
			logger.Error().Err(err).Msg("Error closing document source")
		}
	}()

	store, err := openArtifactStore(&cfg.Index)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.Index.ArtifactDir).Msg("Failed to open artifact store")
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error().Err(err).Msg("Error closing artifact store")
			}
		}()
	} else {
		logger.Warn().Msg("Index persistence disabled (INDEX_STORAGE=none); every start rebuilds from source")
	}

	manager, err := index.NewManager(indexConfig(&cfg.Index), corpus.NewLoader(src, logger), src, store, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create index manager")
	}

	resultCache, cacheCloser, err := cache.NewResultCache(ctx, cacheOptions(&cfg.Cache), logger)
	if err != nil {
		// Queries work uncached; a missing cache is not worth refusing to start.
		logger.Warn().Err(err).Str("backend", cfg.Cache.Backend).Msg("Result cache unavailable, continuing without it")
	} else if resultCache != nil {
		manager.SetCache(resultCache)
	}
	defer func() {
		if err := cacheCloser.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing result cache")
		}
	}()

	var analyzer sentiment.Analyzer
	if cfg.Sentiment.URL != "" {
		analyzer = sentiment.NewClient(sentiment.Config{
			URL:       cfg.Sentiment.URL,
			Timeout:   cfg.Sentiment.Timeout,
			RateLimit: cfg.Sentiment.RateLimit,
			Burst:     cfg.Sentiment.Burst,
		}, logger)
	} else {
		logger.Info().Msg("Sentiment analysis disabled (SENTIMENT_URL not set); comments are stored unscored")
	}
	commentService := comments.NewService(src, analyzer, cfg.Sentiment.Timeout, logger)

	handler := api.NewHandler(manager, commentService, logger)
	defer handler.Wait()

	router := api.NewRouter(handler, api.NewChiMiddleware(middlewareConfig(&cfg.Security)), api.RouterConfig{
		SlowRequestThreshold: cfg.Server.SlowRequestThreshold,
		CompressionLevel:     api.DefaultRouterConfig().CompressionLevel,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddIndexService(services.NewRebuildService(manager, services.RebuildServiceConfig{
		RebuildOnStartup: cfg.Index.RebuildOnStartup,
		RebuildInterval:  cfg.Index.RebuildInterval,
	}, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	var treeErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("Waiting for supervisor tree to stop")
		treeErr = <-errCh
	case treeErr = <-errCh:
		cancel()
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logger.Error().Err(treeErr).Msg("Supervisor tree stopped with error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logger.Info().Msg("Shutdown complete")
}
