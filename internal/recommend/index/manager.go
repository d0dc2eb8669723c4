// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

// Package index owns the serving snapshot of the recommendation engine and its
// lifecycle: build on cold start, load from durable storage, explicit rebuild
// and atomic publication.
//
// State machine:
//
//	Uninitialized -> Loading -> Ready
//	Ready -> Rebuilding -> Ready
//
// A failed load or rebuild returns to the previous state and keeps serving the
// previous snapshot, if any.
package index

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bookrec/internal/metrics"
	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/recommend/corpus"
	"github.com/tomtom215/bookrec/internal/recommend/profile"
	"github.com/tomtom215/bookrec/internal/recommend/storage"
	"github.com/tomtom215/bookrec/internal/recommend/tfidf"
)

// CorpusLoader produces a fresh corpus from the document store.
type CorpusLoader interface {
	Load(ctx context.Context) (*corpus.Corpus, error)
}

// RebuildResult summarizes a completed rebuild.
type RebuildResult struct {
	Version        int   `json:"version"`
	ItemCount      int   `json:"n_books"`
	VocabularySize int   `json:"vocabulary_size"`
	DurationMS     int64 `json:"duration_ms"`
}

// Manager serves queries against the current snapshot and rebuilds it.
//
// Queries load the snapshot pointer once and never block on a rebuild.
// Rebuilds are serialized; a second concurrent rebuild fails fast with
// recommend.ErrRebuildInProgress.
type Manager struct {
	config       *recommend.Config
	loader       CorpusLoader
	interactions profile.InteractionSource
	store        storage.ArtifactStore
	cache        ResultCache
	logger       zerolog.Logger

	snapshot  atomic.Pointer[Snapshot]
	state     atomic.Int32
	rebuildMu sync.Mutex

	// in-memory version counter used when no store is configured
	memVersion int
}

// NewManager creates a Manager. store may be nil, in which case snapshots
// live in memory only and every start builds from the source.
func NewManager(cfg *recommend.Config, loader CorpusLoader, interactions profile.InteractionSource, store storage.ArtifactStore, logger zerolog.Logger) (*Manager, error) {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if loader == nil {
		return nil, fmt.Errorf("corpus loader is required")
	}
	if interactions == nil {
		return nil, fmt.Errorf("interaction source is required")
	}

	m := &Manager{
		config:       cfg,
		loader:       loader,
		interactions: interactions,
		store:        store,
		logger:       logger.With().Str("component", "index").Logger(),
	}
	m.setState(StateUninitialized)
	return m, nil
}

// SetCache installs a result cache. It must be called before serving queries.
func (m *Manager) SetCache(c ResultCache) {
	m.cache = c
}

// Config returns the manager configuration.
func (m *Manager) Config() *recommend.Config {
	return m.config
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

func (m *Manager) setState(s State) {
	m.state.Store(int32(s))
	metrics.IndexState.Set(float64(s))
}

// Snapshot returns the snapshot currently served, or nil.
func (m *Manager) Snapshot() *Snapshot {
	return m.snapshot.Load()
}

// EnsureReady makes sure a snapshot is being served. It loads the persisted
// snapshot when one is complete and valid, and otherwise builds from the
// source and persists the result.
func (m *Manager) EnsureReady(ctx context.Context) error {
	if m.snapshot.Load() != nil {
		return nil
	}

	m.rebuildMu.Lock()
	defer m.rebuildMu.Unlock()

	if m.snapshot.Load() != nil {
		return nil
	}

	m.setState(StateLoading)

	if m.store != nil {
		a, err := m.store.Load(ctx)
		switch {
		case err == nil:
			snap := fromArtifacts(a)
			m.publish(snap)
			m.logger.Info().
				Int("version", snap.Version).
				Int("items", snap.ItemCount()).
				Int("vocabulary", snap.Vocabulary.Len()).
				Msg("loaded persisted snapshot")
			return nil
		case errors.Is(err, storage.ErrNoSnapshot):
			m.logger.Info().Err(err).Msg("no persisted snapshot, building from source")
		default:
			m.logger.Warn().Err(err).Msg("failed to load persisted snapshot, building from source")
		}
	}

	if _, err := m.rebuildLocked(ctx); err != nil {
		m.setState(StateUninitialized)
		return err
	}
	return nil
}

// Rebuild unconditionally reloads the corpus, refits the index, persists it
// and swaps it in. In-flight queries keep the snapshot they started with.
func (m *Manager) Rebuild(ctx context.Context) (*RebuildResult, error) {
	if !m.rebuildMu.TryLock() {
		return nil, recommend.ErrRebuildInProgress
	}
	defer m.rebuildMu.Unlock()

	prev := m.State()
	if m.snapshot.Load() == nil {
		m.setState(StateLoading)
	} else {
		m.setState(StateRebuilding)
	}

	res, err := m.rebuildLocked(ctx)
	if err != nil {
		m.setState(prev)
		return nil, err
	}
	return res, nil
}

// rebuildLocked builds, persists and publishes a snapshot. The caller holds rebuildMu.
func (m *Manager) rebuildLocked(ctx context.Context) (*RebuildResult, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, m.config.RebuildTimeout)
	defer cancel()

	m.logger.Info().Msg("starting index rebuild")

	snap, err := m.build(ctx)
	if err != nil {
		metrics.RecordRebuild("error", time.Since(start))
		m.logger.Error().Err(err).Msg("index rebuild failed, keeping previous snapshot")
		return nil, err
	}

	if err := m.persist(ctx, snap, time.Since(start)); err != nil {
		metrics.RecordRebuild("error", time.Since(start))
		m.logger.Error().Err(err).Msg("persisting snapshot failed, keeping previous snapshot")
		return nil, err
	}

	m.publish(snap)
	duration := time.Since(start)
	metrics.RecordRebuild("success", duration)

	m.logger.Info().
		Int("version", snap.Version).
		Int("items", snap.ItemCount()).
		Int("vocabulary", snap.Vocabulary.Len()).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("index rebuild complete")

	return &RebuildResult{
		Version:        snap.Version,
		ItemCount:      snap.ItemCount(),
		VocabularySize: snap.Vocabulary.Len(),
		DurationMS:     duration.Milliseconds(),
	}, nil
}

// build loads the corpus and fits a new, unpublished snapshot.
func (m *Manager) build(ctx context.Context) (*Snapshot, error) {
	c, err := m.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("rebuild interrupted: %w", err)
	}

	vocab, mat := tfidf.Fit(c.Texts(), tfidf.Options{MaxFeatures: m.config.MaxFeatures})
	if mat.NumRows() != c.Len() {
		return nil, fmt.Errorf("fitted %d rows for %d items", mat.NumRows(), c.Len())
	}

	return &Snapshot{
		SnapshotID: uuid.New().String(),
		BuiltAt:    time.Now().UTC(),
		Vocabulary: vocab,
		Matrix:     mat,
		Corpus:     c,
	}, nil
}

// persist saves snap and assigns its version.
func (m *Manager) persist(ctx context.Context, snap *Snapshot, buildDuration time.Duration) error {
	if m.store == nil {
		m.memVersion++
		snap.Version = m.memVersion
		return nil
	}

	meta, err := m.store.Save(ctx, snap.artifacts(buildDuration))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	snap.Version = meta.Version

	if err := m.store.Prune(ctx, m.config.KeepVersions); err != nil {
		m.logger.Warn().Err(err).Msg("failed to prune old snapshots")
	}
	return nil
}

// publish atomically swaps in snap.
func (m *Manager) publish(snap *Snapshot) {
	if snap.Version > m.memVersion {
		m.memVersion = snap.Version
	}
	m.snapshot.Store(snap)
	m.setState(StateReady)
	metrics.SetIndexSnapshot(snap.Version, snap.ItemCount(), snap.Vocabulary.Len())
}

// Health reports readiness and the size of the served snapshot.
func (m *Manager) Health() recommend.Health {
	h := recommend.Health{State: m.State().String()}
	if snap := m.snapshot.Load(); snap != nil {
		h.Ready = true
		h.ItemCount = snap.ItemCount()
		h.Version = snap.Version
		h.BuiltAt = snap.BuiltAt.Format(time.RFC3339)
	}
	return h
}
