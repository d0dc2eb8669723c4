// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package tfidf

import (
	"math"
	"sort"
)

// Vector is a sparse vector over vocabulary columns.
// Indices are strictly ascending and len(Indices) == len(Values).
type Vector struct {
	Indices []int
	Values  []float64
}

// NewVector builds a Vector from a column->value map, dropping zeros.
func NewVector(m map[int]float64) Vector {
	idx := make([]int, 0, len(m))
	for col, v := range m {
		if v != 0 {
			idx = append(idx, col)
		}
	}
	sort.Ints(idx)
	vals := make([]float64, len(idx))
	for i, col := range idx {
		vals[i] = m[col]
	}
	return Vector{Indices: idx, Values: vals}
}

// NNZ returns the number of stored entries.
func (v Vector) NNZ() int { return len(v.Indices) }

// IsZero reports whether the vector has no stored entries.
func (v Vector) IsZero() bool { return len(v.Indices) == 0 }

// Dot computes the dot product of two sparse vectors.
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Sum returns the sum of all entries.
func (v Vector) Sum() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x
	}
	return sum
}

// Norm returns the L2 norm.
func (v Vector) Norm() float64 {
	var sq float64
	for _, x := range v.Values {
		sq += x * x
	}
	return math.Sqrt(sq)
}

// Get returns the value at column col.
func (v Vector) Get(col int) float64 {
	i := sort.SearchInts(v.Indices, col)
	if i < len(v.Indices) && v.Indices[i] == col {
		return v.Values[i]
	}
	return 0
}

// Matrix is a row-major sparse term-weight matrix.
type Matrix struct {
	Rows []Vector
	Cols int
}

// NumRows returns the number of rows.
func (m *Matrix) NumRows() int {
	if m == nil {
		return 0
	}
	return len(m.Rows)
}

// Row returns row i.
func (m *Matrix) Row(i int) Vector { return m.Rows[i] }

// RowSums returns the sum of weights of every row.
func (m *Matrix) RowSums() []float64 {
	sums := make([]float64, m.NumRows())
	for i := range sums {
		sums[i] = m.Rows[i].Sum()
	}
	return sums
}
