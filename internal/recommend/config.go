// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package recommend

import (
	"fmt"
	"time"
)

// Config contains the tunables of the index and its query surface.
type Config struct {
	// MaxFeatures caps the vocabulary size.
	MaxFeatures int `json:"max_features"`

	// DefaultSimilarK is used when a similar-items query omits k.
	DefaultSimilarK int `json:"default_similar_k"`

	// DefaultRecommendK is used when a recommendation query omits k.
	DefaultRecommendK int `json:"default_recommend_k"`

	// MaxK caps the number of items a query returns. Larger k is clamped,
	// never rejected. Zero means no cap.
	MaxK int `json:"max_k"`

	// RebuildTimeout bounds a single load+fit+persist cycle.
	RebuildTimeout time.Duration `json:"rebuild_timeout"`

	// ExcludeInteracted removes items the user already interacted with from
	// their personalized recommendations.
	ExcludeInteracted bool `json:"exclude_interacted"`

	// FallbackOnSourceError serves the non-personalized ranking when the
	// interaction log cannot be read instead of failing the request.
	FallbackOnSourceError bool `json:"fallback_on_source_error"`

	// KeepVersions is the number of persisted snapshots retained after a rebuild.
	KeepVersions int `json:"keep_versions"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxFeatures:           5000,
		DefaultSimilarK:       4,
		DefaultRecommendK:     10,
		MaxK:                  0,
		RebuildTimeout:        10 * time.Minute,
		ExcludeInteracted:     true,
		FallbackOnSourceError: false,
		KeepVersions:          3,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MaxFeatures < 1 {
		return fmt.Errorf("max_features must be positive, got %d", c.MaxFeatures)
	}
	if c.MaxK < 0 {
		return fmt.Errorf("max_k must not be negative, got %d", c.MaxK)
	}
	if c.DefaultSimilarK < 1 {
		return fmt.Errorf("default_similar_k must be positive, got %d", c.DefaultSimilarK)
	}
	if c.DefaultRecommendK < 1 {
		return fmt.Errorf("default_recommend_k must be positive, got %d", c.DefaultRecommendK)
	}
	if c.RebuildTimeout <= 0 {
		return fmt.Errorf("rebuild_timeout must be positive, got %v", c.RebuildTimeout)
	}
	if c.KeepVersions < 1 {
		return fmt.Errorf("keep_versions must be positive, got %d", c.KeepVersions)
	}
	return nil
}
