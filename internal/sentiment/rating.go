// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package sentiment

import "math"

// Rating summarizes the sentiment of every comment on a book.
type Rating struct {
	Count int          `json:"count"`
	Mean  float64      `json:"mean_score"`
	Bands map[Band]int `json:"bands"`

	// Band is the band of the mean score. Empty when Count is zero.
	Band Band `json:"label,omitempty"`

	// Stars projects Mean from [-1, 1] onto 1..5. Zero when Count is zero.
	Stars int `json:"stars"`
}

// Aggregate folds results into a Rating. Nil results are skipped.
func Aggregate(results []*Result) Rating {
	r := Rating{Bands: make(map[Band]int, len(Bands))}
	for _, b := range Bands {
		r.Bands[b] = 0
	}

	var sum float64
	for _, res := range results {
		if res == nil {
			continue
		}
		r.Count++
		sum += res.Score
		r.Bands[BandFor(res.Score)]++
	}
	if r.Count == 0 {
		return r
	}

	r.Mean = sum / float64(r.Count)
	r.Band = BandFor(r.Mean)
	r.Stars = stars(r.Mean)
	return r
}

func stars(mean float64) int {
	s := int(math.Round((mean+1)*2 + 1))
	if s < 1 {
		return 1
	}
	if s > 5 {
		return 5
	}
	return s
}
