// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   TreeConfig
		want TreeConfig
	}{
		{"zero config", TreeConfig{}, DefaultTreeConfig()},
		{
			"partial config keeps explicit fields",
			TreeConfig{FailureThreshold: 2, ShutdownTimeout: time.Second},
			TreeConfig{FailureThreshold: 2, FailureDecay: 30, FailureBackoff: 15 * time.Second, ShutdownTimeout: time.Second},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tree, err := NewSupervisorTree(quietLogger(), tt.in)
			if err != nil {
				t.Fatalf("NewSupervisorTree() error = %v", err)
			}
			if tree.config != tt.want {
				t.Errorf("config = %+v, want %+v", tree.config, tt.want)
			}
			if tree.Root() == nil {
				t.Error("Root() is nil")
			}
		})
	}
}

func TestSupervisorTree_StartsBothLayers(t *testing.T) {
	t.Parallel()

	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	idx := newMockService("rebuild", 0)
	api := newMockService("http", 0)
	tree.AddIndexService(idx)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(time.Second)
	for (idx.starts.Load() == 0 || api.starts.Load() == 0) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("ServeBackground() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop")
	}

	if idx.starts.Load() != 1 || api.starts.Load() != 1 {
		t.Errorf("starts index=%d api=%d, want 1/1", idx.starts.Load(), api.starts.Load())
	}
	if idx.stops.Load() != 1 || api.stops.Load() != 1 {
		t.Errorf("stops index=%d api=%d, want 1/1", idx.stops.Load(), api.stops.Load())
	}
}

func TestSupervisorTree_RestartIsolatedToLayer(t *testing.T) {
	t.Parallel()

	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	flaky := newMockService("flaky-rebuild", 2)
	api := newMockService("http", 0)
	tree.AddIndexService(flaky)
	tree.AddAPIService(api)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_ = tree.Serve(ctx)

	if flaky.starts.Load() < 3 {
		t.Errorf("flaky starts = %d, want at least 3", flaky.starts.Load())
	}
	if api.starts.Load() != 1 {
		t.Errorf("api starts = %d, want 1 (unaffected by index-layer restarts)", api.starts.Load())
	}
}
