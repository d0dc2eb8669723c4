// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/recommend/index"
)

func newTestCache(t *testing.T, ttl time.Duration, maxEntries int) *Cache {
	t.Helper()
	c := New(ttl, maxEntries, time.Hour)
	t.Cleanup(c.Close)
	return c
}

func TestCacheBasicOperations(t *testing.T) {
	t.Parallel()
	c := newTestCache(t, time.Minute, 0)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Fatal("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	if _, exists = c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()
	c := newTestCache(t, 50*time.Millisecond, 0)

	c.Set("key1", "value1")
	if _, exists := c.Get("key1"); !exists {
		t.Fatal("Expected key1 to exist immediately after set")
	}

	time.Sleep(100 * time.Millisecond)

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry to be removed, Len() = %d", c.Len())
	}
}

func TestCacheSetWithTTLOverridesDefault(t *testing.T) {
	t.Parallel()
	c := newTestCache(t, time.Hour, 0)

	c.SetWithTTL("short", "v", 50*time.Millisecond)
	c.Set("long", "v")
	time.Sleep(100 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("short-lived entry should have expired")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("default-TTL entry should still be present")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	t.Parallel()
	c := newTestCache(t, time.Minute, 0)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Expected a to be deleted")
	}

	c.Clear()
	for _, key := range []string{"b", "c"} {
		if _, ok := c.Get(key); ok {
			t.Errorf("Expected %s to be cleared", key)
		}
	}

	stats := c.GetStats()
	if stats.Evictions != 3 {
		t.Errorf("Evictions = %d, want 3", stats.Evictions)
	}
	if stats.TotalKeys != 0 {
		t.Errorf("TotalKeys = %d, want 0", stats.TotalKeys)
	}
}

func TestCacheStats(t *testing.T) {
	t.Parallel()
	c := newTestCache(t, time.Minute, 0)

	if c.HitRate() != 0 {
		t.Errorf("HitRate() with no lookups = %v, want 0", c.HitRate())
	}

	c.Set("key1", "value1")
	c.Get("key1")
	c.Get("key2")
	c.Get("key1")

	stats := c.GetStats()
	if stats.Hits != 2 {
		t.Errorf("Expected 2 hits, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}

	want := 200.0 / 3.0
	if got := c.HitRate(); got < want-0.01 || got > want+0.01 {
		t.Errorf("Expected hit rate around %.2f%%, got %.2f%%", want, got)
	}
}

func TestCacheMaxEntries(t *testing.T) {
	t.Parallel()
	c := newTestCache(t, time.Minute, 2)

	c.SetWithTTL("first", 1, time.Minute)
	c.SetWithTTL("second", 2, 2*time.Minute)
	c.SetWithTTL("third", 3, 3*time.Minute)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get("first"); ok {
		t.Error("entry closest to expiry should have been evicted")
	}
	for _, k := range []string{"second", "third"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should still be cached", k)
		}
	}

	// Overwriting an existing key never evicts.
	c.Set("second", 22)
	if c.Len() != 2 {
		t.Errorf("Len() after overwrite = %d, want 2", c.Len())
	}
}

func TestCacheCleanup(t *testing.T) {
	t.Parallel()
	c := newTestCache(t, time.Minute, 0)

	c.SetWithTTL("expired1", 1, time.Millisecond)
	c.SetWithTTL("expired2", 2, time.Millisecond)
	c.Set("live", 3)
	time.Sleep(10 * time.Millisecond)

	c.cleanup()

	if c.Len() != 1 {
		t.Errorf("Len() after cleanup = %d, want 1", c.Len())
	}
	stats := c.GetStats()
	if stats.Evictions != 2 {
		t.Errorf("Evictions = %d, want 2", stats.Evictions)
	}
	if stats.LastCleanup.IsZero() {
		t.Error("LastCleanup should be set")
	}
}

func TestCacheCleanupLoop(t *testing.T) {
	t.Parallel()
	c := New(time.Millisecond, 0, 10*time.Millisecond)
	defer c.Close()

	c.Set("k", "v")
	deadline := time.Now().Add(2 * time.Second)
	for c.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.Len() != 0 {
		t.Error("cleanup loop did not remove the expired entry")
	}
}

func TestCacheCloseIdempotent(t *testing.T) {
	t.Parallel()
	c := New(time.Minute, 0, time.Hour)
	c.Close()
	c.Close()
}

func TestCacheConcurrency(t *testing.T) {
	t.Parallel()
	c := newTestCache(t, time.Minute, 50)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d-%d", n, j%10)
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("Len() = %d exceeds limit", c.Len())
	}
}

func TestMemoryResults(t *testing.T) {
	t.Parallel()
	results := NewMemoryResults(newTestCache(t, time.Minute, 0))
	ctx := context.Background()

	if _, ok := results.Get(ctx, "similar:1:4:b1"); ok {
		t.Fatal("empty cache reported a hit")
	}

	want := &index.Result{
		Items:   []recommend.ScoredItem{{Item: recommend.Item{ID: "b2", Title: "Dune"}, Row: 1, Score: 0.5}},
		Version: 1,
	}
	results.Set(ctx, "similar:1:4:b1", want)

	got, ok := results.Get(ctx, "similar:1:4:b1")
	if !ok {
		t.Fatal("expected a hit after Set")
	}
	if got != want {
		t.Error("memory cache should return the stored pointer")
	}
}

func TestMemoryResultsIgnoresForeignValues(t *testing.T) {
	t.Parallel()
	c := newTestCache(t, time.Minute, 0)
	c.Set("k", "not a result")

	if _, ok := NewMemoryResults(c).Get(context.Background(), "k"); ok {
		t.Error("a non-Result value must be reported as a miss")
	}
}

func TestNewResultCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name    string
		opts    Options
		wantNil bool
		wantErr bool
	}{
		{name: "none", opts: Options{Backend: BackendNone}, wantNil: true},
		{name: "empty backend", opts: Options{}, wantNil: true},
		{name: "memory", opts: Options{Backend: BackendMemory, TTL: time.Minute, MaxEntries: 10}},
		{name: "unknown", opts: Options{Backend: "memcached"}, wantNil: true, wantErr: true},
		{
			name: "redis unreachable",
			opts: Options{Backend: BackendRedis, Redis: RedisConfig{
				Addr: "127.0.0.1:1", Timeout: 100 * time.Millisecond,
			}},
			wantNil: true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rc, closer, err := NewResultCache(ctx, tt.opts, zerolog.Nop())
			if closer == nil {
				t.Fatal("closer must never be nil")
			}
			defer closer.Close()

			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if (rc == nil) != tt.wantNil {
				t.Errorf("cache nil = %v, want %v", rc == nil, tt.wantNil)
			}
		})
	}
}
