// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package models

import (
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bookrec/internal/recommend"
)

func TestNewBookResponses(t *testing.T) {
	t.Parallel()

	got := NewBookResponses([]recommend.ScoredItem{
		{Item: recommend.Item{ID: "b1", Title: "Emma", Author: "Austen", Genre: "romance", Description: "d", Image: "e.jpg"}, Row: 0, Score: 0.5},
		{Item: recommend.Item{ID: "b2"}, Row: 1, Score: 0.25},
	})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	want := BookResponse{ID: "b1", Title: "Emma", Author: "Austen", Genre: "romance", Description: "d", Image: "e.jpg", Score: 0.5}
	if got[0] != want {
		t.Errorf("got %+v, want %+v", got[0], want)
	}

	empty := NewBookResponses(nil)
	data, err := json.Marshal(empty)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("empty list encodes as %s, want []", data)
	}
}

func TestNewHealthResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     recommend.Health
		status string
	}{
		{"ready", recommend.Health{Ready: true, State: "ready", ItemCount: 3, Version: 2}, "ok"},
		{"loading", recommend.Health{State: "loading"}, "not_ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewHealthResponse(tt.in)
			if got.Status != tt.status {
				t.Errorf("Status = %s, want %s", got.Status, tt.status)
			}
			if got.NBooks != tt.in.ItemCount || got.ItemCount != tt.in.ItemCount {
				t.Errorf("counts = %d/%d, want %d", got.NBooks, got.ItemCount, tt.in.ItemCount)
			}
		})
	}
}

func TestMetadataOmitsUnsetFields(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Metadata{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, k := range []string{"fallback", "count", "index_version", "cached"} {
		if _, ok := m[k]; ok {
			t.Errorf("%s should be omitted when unset", k)
		}
	}

	f := false
	data, _ = json.Marshal(Metadata{Fallback: &f})
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v, ok := m["fallback"]; !ok || v != false {
		t.Errorf("explicit fallback=false should be encoded, got %v", m)
	}
}
