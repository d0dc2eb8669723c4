// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package sentiment

import (
	"math"
	"strings"
)

// Band is a coarse sentiment category.
type Band string

// Bands ordered from most to least favourable.
const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandAvg       Band = "avg"
	BandPoor      Band = "poor"
)

// Bands lists every band.
var Bands = []Band{BandExcellent, BandGood, BandAvg, BandPoor}

// Band thresholds on the signed score.
const (
	excellentThreshold = 0.6
	goodThreshold      = 0.2
	poorThreshold      = -0.2
)

// Result is the sentiment of a single text.
type Result struct {
	// Score is signed: positive for favourable text, in [-1, 1].
	Score float64 `json:"score"`
	Label Band    `json:"label"`
}

// MapLabelToScore converts classifier output into a signed Result. A label
// starting with "POS" (any case) keeps the confidence positive, any other
// label negates it.
func MapLabelToScore(label string, confidence float64) Result {
	s := math.Abs(confidence)
	if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(label)), "POS") {
		s = -s
	}
	return Result{Score: s, Label: BandFor(s)}
}

// BandFor returns the band a signed score falls in.
func BandFor(score float64) Band {
	switch {
	case score >= excellentThreshold:
		return BandExcellent
	case score >= goodThreshold:
		return BandGood
	case score <= poorThreshold:
		return BandPoor
	default:
		return BandAvg
	}
}

// ParseBand reports whether label names a band.
func ParseBand(label string) (Band, bool) {
	b := Band(strings.ToLower(strings.TrimSpace(label)))
	for _, known := range Bands {
		if b == known {
			return b, true
		}
	}
	return "", false
}
