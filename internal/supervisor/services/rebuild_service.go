// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/recommend/index"
)

const defaultRetryInterval = 30 * time.Second

// IndexLifecycle is the part of index.Manager the scheduler needs.
type IndexLifecycle interface {
	EnsureReady(ctx context.Context) error
	Rebuild(ctx context.Context) (*index.RebuildResult, error)
}

// RebuildServiceConfig controls startup and periodic rebuilds.
type RebuildServiceConfig struct {
	// RebuildOnStartup forces a fresh build instead of loading the
	// persisted snapshot.
	RebuildOnStartup bool

	// RebuildInterval is the period between scheduled rebuilds.
	// Zero disables scheduled rebuilds.
	RebuildInterval time.Duration

	// RetryInterval is the wait between attempts while no snapshot is
	// available. Default: 30s
	RetryInterval time.Duration
}

// RebuildService brings the index up and keeps it fresh.
//
// Until a snapshot is ready it retries on RetryInterval; queries answer
// INDEX_NOT_READY in the meantime. Once ready it rebuilds on
// RebuildInterval. A failed scheduled rebuild keeps the previous snapshot
// serving and is only logged.
type RebuildService struct {
	index  IndexLifecycle
	config RebuildServiceConfig
	logger zerolog.Logger
	name   string
}

// NewRebuildService creates the scheduler.
//
//nolint:gocritic // zerolog.Logger is passed by value throughout the codebase
func NewRebuildService(idx IndexLifecycle, cfg RebuildServiceConfig, logger zerolog.Logger) *RebuildService {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaultRetryInterval
	}
	return &RebuildService{
		index:  idx,
		config: cfg,
		logger: logger.With().Str("service", "rebuild-scheduler").Logger(),
		name:   "rebuild-scheduler",
	}
}

// Serve implements suture.Service.
func (s *RebuildService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("rebuild_on_startup", s.config.RebuildOnStartup).
		Dur("rebuild_interval", s.config.RebuildInterval).
		Msg("rebuild scheduler starting")

	if err := s.startup(ctx); err != nil {
		return err
	}

	if s.config.RebuildInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.RebuildInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("rebuild scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.rebuild(ctx)
		}
	}
}

// startup blocks until a snapshot is serving or ctx ends.
func (s *RebuildService) startup(ctx context.Context) error {
	first := true
	for {
		var err error
		if s.config.RebuildOnStartup && first {
			_, err = s.index.Rebuild(ctx)
			if errors.Is(err, recommend.ErrRebuildInProgress) {
				// A rebuild requested over the API got there first.
				err = s.index.EnsureReady(ctx)
			}
		} else {
			err = s.index.EnsureReady(ctx)
		}
		first = false

		if err == nil {
			s.logger.Info().Msg("index ready")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		s.logger.Warn().Err(err).Dur("retry_in", s.config.RetryInterval).Msg("index not available yet")

		timer := time.NewTimer(s.config.RetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (s *RebuildService) rebuild(ctx context.Context) {
	res, err := s.index.Rebuild(ctx)
	switch {
	case errors.Is(err, recommend.ErrRebuildInProgress):
		s.logger.Debug().Msg("scheduled rebuild skipped, another rebuild is running")
	case err != nil:
		s.logger.Warn().Err(err).Msg("scheduled rebuild failed, keeping current snapshot")
	default:
		s.logger.Info().
			Int("version", res.Version).
			Int("n_books", res.ItemCount).
			Int64("duration_ms", res.DurationMS).
			Msg("scheduled rebuild complete")
	}
}

// String implements fmt.Stringer.
func (s *RebuildService) String() string {
	return s.name
}
