// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/recommend/index"
	"github.com/tomtom215/bookrec/internal/testinfra"
)

func TestRedisResults_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	redisC, err := testinfra.NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, redisC)

	rc, closer, err := NewResultCache(ctx, Options{
		Backend: BackendRedis,
		TTL:     time.Minute,
		Redis:   RedisConfig{Addr: redisC.Addr, Prefix: "bookrec-test:"},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewResultCache: %v", err)
	}
	defer closer.Close()

	if _, ok := rc.Get(ctx, "recommend:1:10:u1"); ok {
		t.Fatal("empty redis reported a hit")
	}

	want := &index.Result{
		Items: []recommend.ScoredItem{
			{Item: recommend.Item{ID: "b1", Title: "Emma", Author: "Austen"}, Row: 0, Score: 0.75},
		},
		Fallback: true,
		Version:  1,
	}
	rc.Set(ctx, "recommend:1:10:u1", want)

	got, ok := rc.Get(ctx, "recommend:1:10:u1")
	if !ok {
		t.Fatal("expected a hit after Set")
	}
	if !got.Fallback || got.Version != 1 || len(got.Items) != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Items[0].Item.Title != "Emma" || got.Items[0].Score != 0.75 {
		t.Errorf("item mismatch: %+v", got.Items[0])
	}
}
