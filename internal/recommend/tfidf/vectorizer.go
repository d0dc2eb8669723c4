// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

// Package tfidf fits a vocabulary-bounded TF-IDF model over a corpus and
// produces an L2-normalized sparse term-weight matrix, one row per document.
//
// Weighting follows the smoothed formulation:
//
//	weight(t, d) = tf(t, d) * idf(t)
//	idf(t)       = ln((1 + N) / (1 + df(t))) + 1
//
// where tf is the raw count of t in d, N is the number of documents and df(t)
// the number of documents containing t. The vocabulary keeps the MaxFeatures
// terms with the highest corpus-wide term frequency, ties broken by term, and
// assigns columns in ascending term order. Fitting is deterministic.
package tfidf

import (
	"math"
	"sort"
)

// DefaultMaxFeatures is the vocabulary cap used when Options leaves it unset.
const DefaultMaxFeatures = 5000

// Options configures Fit.
type Options struct {
	MaxFeatures int
}

// Vocabulary maps terms to matrix columns and carries the fitted idf weights.
type Vocabulary struct {
	// Terms holds the term of each column, ascending.
	Terms []string
	// IDF holds the idf weight of each column.
	IDF []float64

	index map[string]int
}

// NewVocabulary builds a Vocabulary from parallel term and idf slices.
// Terms must be sorted ascending.
func NewVocabulary(terms []string, idf []float64) *Vocabulary {
	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[t] = i
	}
	return &Vocabulary{Terms: terms, IDF: idf, index: index}
}

// Len returns the vocabulary size.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Terms)
}

// Column returns the column of term. Vocabularies must be constructed with
// NewVocabulary for lookups to work.
func (v *Vocabulary) Column(term string) (int, bool) {
	if v == nil {
		return 0, false
	}
	col, ok := v.index[term]
	return col, ok
}

// Fit tokenizes texts, selects the vocabulary and returns the weighted,
// row-normalized matrix. An empty input yields an empty vocabulary and matrix.
func Fit(texts []string, opts Options) (*Vocabulary, *Matrix) {
	maxFeatures := opts.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	docs := make([]map[string]int, len(texts))
	termFreq := make(map[string]int)
	docFreq := make(map[string]int)
	for i, text := range texts {
		counts := make(map[string]int)
		for _, tok := range Tokenize(text) {
			counts[tok]++
		}
		for term, n := range counts {
			termFreq[term] += n
			docFreq[term]++
		}
		docs[i] = counts
	}

	terms := selectTerms(termFreq, maxFeatures)
	n := float64(len(texts))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	vocab := NewVocabulary(terms, idf)

	rows := make([]Vector, len(docs))
	for i, counts := range docs {
		rows[i] = vocab.weigh(counts)
	}

	return vocab, &Matrix{Rows: rows, Cols: vocab.Len()}
}

// Transform maps a new document onto the fitted vocabulary. Terms outside the
// vocabulary are ignored.
func (v *Vocabulary) Transform(text string) Vector {
	counts := make(map[string]int)
	for _, tok := range Tokenize(text) {
		counts[tok]++
	}
	return v.weigh(counts)
}

// weigh applies tf*idf to in-vocabulary counts and L2-normalizes the result.
func (v *Vocabulary) weigh(counts map[string]int) Vector {
	weights := make(map[int]float64, len(counts))
	for term, c := range counts {
		col, ok := v.Column(term)
		if !ok {
			continue
		}
		weights[col] = float64(c) * v.IDF[col]
	}

	vec := NewVector(weights)
	if norm := vec.Norm(); norm > 0 {
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}
	return vec
}

// selectTerms keeps the top max terms by corpus frequency and returns them
// sorted ascending.
func selectTerms(termFreq map[string]int, max int) []string {
	terms := make([]string, 0, len(termFreq))
	for t := range termFreq {
		terms = append(terms, t)
	}

	if len(terms) > max {
		sort.Slice(terms, func(i, j int) bool {
			fi, fj := termFreq[terms[i]], termFreq[terms[j]]
			if fi != fj {
				return fi > fj
			}
			return terms[i] < terms[j]
		})
		terms = terms[:max]
	}

	sort.Strings(terms)
	return terms
}
