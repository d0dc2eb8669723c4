// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package index

import (
	"context"
	"encoding/binary"
	"fmt"
	"slices"
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	"github.com/tomtom215/bookrec/internal/metrics"
	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/recommend/profile"
	"github.com/tomtom215/bookrec/internal/recommend/similarity"
)

// MaxIDLength bounds item and user identifiers.
const MaxIDLength = 128

// Result is the answer to a similar-items or recommendation query.
type Result struct {
	Items []recommend.ScoredItem `json:"items"`

	// Fallback is true when the non-personalized ranking was served.
	Fallback bool `json:"fallback"`

	// Version is the snapshot version the result was computed from.
	Version int `json:"version"`
}

// ResultCache stores query results. Keys embed the snapshot id, so a rebuild
// implicitly invalidates every entry and instances sharing a backend never
// read each other's results.
type ResultCache interface {
	Get(ctx context.Context, key string) (*Result, bool)
	Set(ctx context.Context, key string, r *Result)
}

// ValidateID checks that id is a usable identifier.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty identifier", recommend.ErrInvalidInput)
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("%w: identifier longer than %d bytes", recommend.ErrInvalidInput, MaxIDLength)
	}
	if !utf8.ValidString(id) {
		return fmt.Errorf("%w: identifier is not valid UTF-8", recommend.ErrInvalidInput)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return fmt.Errorf("%w: identifier contains whitespace or control characters", recommend.ErrInvalidInput)
		}
	}
	return nil
}

func validateK(k int) error {
	if k < 1 {
		return fmt.Errorf("%w: k must be at least 1, got %d", recommend.ErrInvalidInput, k)
	}
	return nil
}

// clampK limits k to the configured cap and to the number of rows. A k beyond
// the corpus returns every available row rather than an error.
func (m *Manager) clampK(k int, snap *Snapshot) int {
	if m.config.MaxK > 0 && k > m.config.MaxK {
		k = m.config.MaxK
	}
	return min(k, snap.Matrix.NumRows())
}

func cacheKey(kind string, snap *Snapshot, k int, id string) string {
	sid := snap.SnapshotID
	if sid == "" {
		sid = "v" + strconv.Itoa(snap.Version)
	}
	return kind + ":" + sid + ":" + strconv.Itoa(k) + ":" + id
}

// profileDigest hashes the rows a user's interactions resolve to. The profile
// vector and the excluded rows are functions of this multiset, so two requests
// with the same digest against the same snapshot rank identically.
func profileDigest(userID string, interactions []recommend.Interaction, idToRow map[string]int) string {
	var rows []int
	for i := range interactions {
		if interactions[i].UserID != userID {
			continue
		}
		if row, ok := idToRow[interactions[i].BookID]; ok {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return "none"
	}
	slices.Sort(rows)
	buf := make([]byte, 0, 8*len(rows))
	for _, row := range rows {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(row))
	}
	return strconv.FormatUint(xxhash.Sum64(buf), 16)
}

// Similar returns the k items most similar to itemID, excluding itemID itself.
func (m *Manager) Similar(ctx context.Context, itemID string, k int) (res *Result, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("similar", outcome(err), time.Since(start)) }()

	if err := ValidateID(itemID); err != nil {
		return nil, err
	}
	if err := validateK(k); err != nil {
		return nil, err
	}

	snap := m.snapshot.Load()
	if snap == nil {
		return nil, recommend.ErrIndexNotReady
	}
	k = m.clampK(k, snap)

	row, ok := snap.Corpus.Lookup(itemID)
	if !ok {
		return nil, fmt.Errorf("%w: item %q", recommend.ErrNotFound, itemID)
	}

	key := cacheKey("similar", snap, k, itemID)
	if cached, hit := m.cacheGet(ctx, key); hit {
		return cached, nil
	}

	hits := similarity.Rank(snap.Matrix.Row(row), snap.Matrix, similarity.ExcludeRows(row)).Take(k)
	res = &Result{Items: snap.hits(hits), Version: snap.Version}

	m.cacheSet(ctx, key, res)
	return res, nil
}

// Recommend returns up to k items for userID ranked against the mean of the
// rows the user interacted with. Users without resolvable interactions get
// the non-personalized ranking and Result.Fallback is set. Interactions are
// read on every call; the cache only short-circuits the ranking.
func (m *Manager) Recommend(ctx context.Context, userID string, k int) (res *Result, err error) {
	start := time.Now()
	defer func() { metrics.RecordQuery("recommendations", outcome(err), time.Since(start)) }()

	if err := ValidateID(userID); err != nil {
		return nil, err
	}
	if err := validateK(k); err != nil {
		return nil, err
	}

	snap := m.snapshot.Load()
	if snap == nil {
		return nil, recommend.ErrIndexNotReady
	}
	k = m.clampK(k, snap)

	interactions, srcErr := m.interactions.InteractionsForUser(ctx, userID)
	if srcErr != nil {
		if !m.config.FallbackOnSourceError {
			return nil, fmt.Errorf("read interactions: %w", srcErr)
		}
		m.logger.Warn().Err(srcErr).Str("user_id", userID).Msg("interaction source failed, serving fallback ranking")
		interactions = nil
	}

	key := cacheKey("recommendations", snap, k, profileDigest(userID, interactions, snap.Corpus.IDToRow))
	if cached, hit := m.cacheGet(ctx, key); hit {
		return cached, nil
	}

	res = &Result{Version: snap.Version}
	vec, rows, ok := profile.Build(userID, interactions, snap.Corpus.IDToRow, snap.Matrix)
	if ok {
		var exclude similarity.Exclude
		if m.config.ExcludeInteracted {
			exclude = similarity.ExcludeRows(rows...)
		}
		res.Items = snap.hits(similarity.Rank(vec, snap.Matrix, exclude).Take(k))
	} else {
		metrics.RecommendFallbacks.Inc()
		res.Fallback = true
		res.Items = snap.hits(similarity.RankByWeightSum(snap.Matrix, nil).Take(k))
	}

	// Source failures are not cached so the next request retries personalization.
	if srcErr == nil {
		m.cacheSet(ctx, key, res)
	}
	return res, nil
}

func (m *Manager) cacheGet(ctx context.Context, key string) (*Result, bool) {
	if m.cache == nil {
		return nil, false
	}
	return m.cache.Get(ctx, key)
}

func (m *Manager) cacheSet(ctx context.Context, key string, r *Result) {
	if m.cache != nil {
		m.cache.Set(ctx, key, r)
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
