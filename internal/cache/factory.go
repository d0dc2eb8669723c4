// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package cache

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookrec/internal/recommend/index"
)

// Backend names accepted by NewResultCache.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Options selects and configures a result cache backend.
type Options struct {
	Backend    string
	TTL        time.Duration
	MaxEntries int
	Redis      RedisConfig
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// NewResultCache builds the result cache selected by opts.Backend. The returned closer
// releases background resources and is never nil. For BackendNone the cache
// is nil, which the index manager treats as disabled.
func NewResultCache(ctx context.Context, opts Options, logger zerolog.Logger) (index.ResultCache, io.Closer, error) {
	noop := closerFunc(func() error { return nil })

	switch opts.Backend {
	case BackendNone, "":
		return nil, noop, nil

	case BackendMemory:
		c := New(opts.TTL, opts.MaxEntries, opts.TTL)
		return NewMemoryResults(c), closerFunc(func() error { c.Close(); return nil }), nil

	case BackendRedis:
		rcfg := opts.Redis
		if rcfg.TTL == 0 {
			rcfg.TTL = opts.TTL
		}
		client, err := NewRedisClient(ctx, rcfg)
		if err != nil {
			return nil, noop, fmt.Errorf("connect redis %s: %w", rcfg.Addr, err)
		}
		return NewRedisResults(client, rcfg, logger), client, nil

	default:
		return nil, noop, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
