// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package sentiment

import (
	"math"
	"testing"
)

func TestMapLabelToScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		label      string
		confidence float64
		wantScore  float64
		wantBand   Band
	}{
		{"strong positive", "POSITIVE", 0.98, 0.98, BandExcellent},
		{"lowercase positive", "positive", 0.7, 0.7, BandExcellent},
		{"POS prefix", "POS", 0.3, 0.3, BandGood},
		{"weak positive", "POSITIVE", 0.1, 0.1, BandAvg},
		{"negative", "NEGATIVE", 0.9, -0.9, BandPoor},
		{"weak negative", "NEGATIVE", 0.15, -0.15, BandAvg},
		{"unknown label is negative", "NEUTRAL", 0.5, -0.5, BandPoor},
		{"excellent boundary", "POSITIVE", 0.6, 0.6, BandExcellent},
		{"good boundary", "POSITIVE", 0.2, 0.2, BandGood},
		{"poor boundary", "NEGATIVE", 0.2, -0.2, BandPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MapLabelToScore(tt.label, tt.confidence)
			if math.Abs(got.Score-tt.wantScore) > 1e-12 {
				t.Errorf("Score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.Label != tt.wantBand {
				t.Errorf("Label = %q, want %q", got.Label, tt.wantBand)
			}
		})
	}
}

func TestParseBand(t *testing.T) {
	t.Parallel()

	for _, b := range Bands {
		if got, ok := ParseBand(string(b)); !ok || got != b {
			t.Errorf("ParseBand(%q) = %q, %v", b, got, ok)
		}
	}
	if got, ok := ParseBand(" Good "); !ok || got != BandGood {
		t.Errorf("ParseBand should trim and ignore case, got %q %v", got, ok)
	}
	if _, ok := ParseBand("POSITIVE"); ok {
		t.Error("POSITIVE is a classifier label, not a band")
	}
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		r := Aggregate(nil)
		if r.Count != 0 || r.Stars != 0 || r.Band != "" {
			t.Errorf("empty rating = %+v", r)
		}
		if len(r.Bands) != len(Bands) {
			t.Errorf("every band should be reported, got %v", r.Bands)
		}
	})

	t.Run("mixed", func(t *testing.T) {
		t.Parallel()
		r := Aggregate([]*Result{
			{Score: 0.9, Label: BandExcellent},
			{Score: 0.3, Label: BandGood},
			nil,
			{Score: -0.3, Label: BandPoor},
		})
		if r.Count != 3 {
			t.Fatalf("Count = %d, want 3", r.Count)
		}
		if math.Abs(r.Mean-0.3) > 1e-9 {
			t.Errorf("Mean = %v, want 0.3", r.Mean)
		}
		if r.Band != BandGood {
			t.Errorf("Band = %q, want good", r.Band)
		}
		if r.Bands[BandExcellent] != 1 || r.Bands[BandGood] != 1 || r.Bands[BandPoor] != 1 || r.Bands[BandAvg] != 0 {
			t.Errorf("Bands = %v", r.Bands)
		}
		// round((0.3+1)*2+1) = round(3.6) = 4
		if r.Stars != 4 {
			t.Errorf("Stars = %d, want 4", r.Stars)
		}
	})
}

func TestStars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mean float64
		want int
	}{
		{-1, 1},
		{-2, 1},
		{-0.5, 2},
		{0, 3},
		{0.5, 4},
		{1, 5},
		{3, 5},
	}
	for _, tt := range tests {
		if got := stars(tt.mean); got != tt.want {
			t.Errorf("stars(%v) = %d, want %d", tt.mean, got, tt.want)
		}
	}
}
