// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

// Package similarity ranks the rows of a term-weight matrix against a query.
//
// Every row is scored, the full ranking is ordered by score descending with
// ties broken by ascending row index, and truncation happens afterwards, so
// the top-k of any query is a prefix of its top-(k+1).
package similarity

import (
	"sort"

	"github.com/tomtom215/bookrec/internal/recommend/tfidf"
)

// Hit is one ranked row.
type Hit struct {
	Row   int
	Score float64
}

// Ranking is a finite, restartable iterator over ranked rows.
// It is not safe for concurrent use.
type Ranking struct {
	hits []Hit
	pos  int
}

// Exclude is a set of row indices omitted from a ranking.
type Exclude map[int]struct{}

// ExcludeRows builds an Exclude set from rows.
func ExcludeRows(rows ...int) Exclude {
	ex := make(Exclude, len(rows))
	for _, r := range rows {
		ex[r] = struct{}{}
	}
	return ex
}

// Rank scores every row of m by dot product with query. Rows in exclude are
// omitted regardless of their score.
func Rank(query tfidf.Vector, m *tfidf.Matrix, exclude Exclude) *Ranking {
	scores := make([]float64, m.NumRows())
	for i := range scores {
		scores[i] = query.Dot(m.Row(i))
	}
	return fromScores(scores, exclude)
}

// RankByWeightSum ranks rows by the sum of their weights. It is the
// non-personalized ordering used when no query vector is available; a denser
// document scores higher.
func RankByWeightSum(m *tfidf.Matrix, exclude Exclude) *Ranking {
	return fromScores(m.RowSums(), exclude)
}

func fromScores(scores []float64, exclude Exclude) *Ranking {
	hits := make([]Hit, 0, len(scores))
	for i, s := range scores {
		if _, skip := exclude[i]; skip {
			continue
		}
		hits = append(hits, Hit{Row: i, Score: s})
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].Row < hits[b].Row
	})

	return &Ranking{hits: hits}
}

// Len returns the number of ranked rows.
func (r *Ranking) Len() int { return len(r.hits) }

// Next returns the next hit, or false when the ranking is exhausted.
func (r *Ranking) Next() (Hit, bool) {
	if r.pos >= len(r.hits) {
		return Hit{}, false
	}
	h := r.hits[r.pos]
	r.pos++
	return h, true
}

// Reset rewinds the iterator to the first hit.
func (r *Ranking) Reset() { r.pos = 0 }

// Take returns up to k hits from the start of the ranking without moving the
// iterator. k larger than Len returns every hit; k <= 0 returns none.
func (r *Ranking) Take(k int) []Hit {
	if k <= 0 {
		return nil
	}
	if k > len(r.hits) {
		k = len(r.hits)
	}
	out := make([]Hit, k)
	copy(out, r.hits[:k])
	return out
}
