// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package comments

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/sentiment"
)

type memStore struct {
	mu       sync.Mutex
	comments []Comment
	err      error
}

func (m *memStore) InsertComment(_ context.Context, c *Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.comments = append(m.comments, *c)
	return nil
}

func (m *memStore) CommentsForBook(_ context.Context, bookID string) ([]Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []Comment
	for _, c := range m.comments {
		if c.BookID == bookID {
			out = append(out, c)
		}
	}
	return out, nil
}

type mockAnalyzer struct {
	result *sentiment.Result
	err    error
	calls  int
}

func (m *mockAnalyzer) Analyze(_ context.Context, _ string) (*sentiment.Result, error) {
	m.calls++
	return m.result, m.err
}

func intPtr(v int) *int { return &v }

func TestServicePost(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	analyzer := &mockAnalyzer{result: &sentiment.Result{Score: 0.8, Label: sentiment.BandExcellent}}
	svc := NewService(store, analyzer, time.Second, zerolog.Nop())
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	c, err := svc.Post(context.Background(), PostInput{BookID: "b1", UserID: "u1", Text: "  Loved it  ", Rating: intPtr(5)})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if c.ID == "" {
		t.Error("comment id should be generated")
	}
	if c.Text != "Loved it" {
		t.Errorf("Text = %q, want trimmed", c.Text)
	}
	if c.Sentiment == nil || c.Sentiment.Label != sentiment.BandExcellent {
		t.Errorf("Sentiment = %+v", c.Sentiment)
	}
	if !c.CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt = %v", c.CreatedAt)
	}
	if len(store.comments) != 1 {
		t.Fatalf("stored %d comments, want 1", len(store.comments))
	}
}

func TestServicePostSentimentFailureStillStores(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	analyzer := &mockAnalyzer{err: errors.New("connection refused")}
	svc := NewService(store, analyzer, time.Second, zerolog.Nop())

	c, err := svc.Post(context.Background(), PostInput{BookID: "b1", Text: "meh"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if c.Sentiment != nil {
		t.Errorf("Sentiment = %+v, want nil", c.Sentiment)
	}
	if analyzer.calls != 1 {
		t.Errorf("analyzer called %d times", analyzer.calls)
	}
	if len(store.comments) != 1 {
		t.Error("comment should be stored despite sentiment failure")
	}
}

func TestServicePostWithoutAnalyzer(t *testing.T) {
	t.Parallel()

	svc := NewService(&memStore{}, nil, 0, zerolog.Nop())
	c, err := svc.Post(context.Background(), PostInput{BookID: "b1", Text: "ok"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if c.Sentiment != nil {
		t.Error("no analyzer means no sentiment")
	}
}

func TestServicePostValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   PostInput
	}{
		{"missing text", PostInput{BookID: "b1"}},
		{"blank text", PostInput{BookID: "b1", Text: "   "}},
		{"text too long", PostInput{BookID: "b1", Text: strings.Repeat("a", MaxTextLength+1)}},
		{"missing book", PostInput{Text: "hi"}},
		{"book with space", PostInput{BookID: "b 1", Text: "hi"}},
		{"bad user", PostInput{BookID: "b1", UserID: "u\n1", Text: "hi"}},
		{"rating too low", PostInput{BookID: "b1", Text: "hi", Rating: intPtr(0)}},
		{"rating too high", PostInput{BookID: "b1", Text: "hi", Rating: intPtr(6)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := &memStore{}
			svc := NewService(store, nil, 0, zerolog.Nop())
			_, err := svc.Post(context.Background(), tt.in)
			if !errors.Is(err, recommend.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
			if len(store.comments) != 0 {
				t.Error("invalid comment must not be stored")
			}
		})
	}
}

func TestServicePostStoreError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("disk full")
	svc := NewService(&memStore{err: storeErr}, nil, 0, zerolog.Nop())
	if _, err := svc.Post(context.Background(), PostInput{BookID: "b1", Text: "hi"}); !errors.Is(err, storeErr) {
		t.Errorf("err = %v, want wrapped store error", err)
	}
}

func TestServiceListAndRating(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	analyzer := &mockAnalyzer{}
	svc := NewService(store, analyzer, time.Second, zerolog.Nop())
	ctx := context.Background()

	posts := []*sentiment.Result{
		{Score: 0.9, Label: sentiment.BandExcellent},
		{Score: -0.3, Label: sentiment.BandPoor},
		nil,
	}
	for _, res := range posts {
		analyzer.result = res
		analyzer.err = nil
		if res == nil {
			analyzer.err = errors.New("timeout")
		}
		if _, err := svc.Post(ctx, PostInput{BookID: "b1", Text: "text"}); err != nil {
			t.Fatalf("Post: %v", err)
		}
	}
	if _, err := svc.Post(ctx, PostInput{BookID: "b2", Text: "other"}); err != nil {
		t.Fatalf("Post: %v", err)
	}

	list, err := svc.List(ctx, "b1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List returned %d comments, want 3", len(list))
	}

	rating, err := svc.Rating(ctx, "b1")
	if err != nil {
		t.Fatalf("Rating: %v", err)
	}
	if rating.BookID != "b1" || rating.Count != 2 {
		t.Errorf("rating = %+v, want 2 scored comments", rating)
	}
	if rating.Band != sentiment.BandGood {
		t.Errorf("Band = %q, want good for mean 0.3", rating.Band)
	}

	empty, err := svc.List(ctx, "nope")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("List for unknown book = %v, want empty non-nil slice", empty)
	}
}

func TestServiceListInvalidID(t *testing.T) {
	t.Parallel()

	svc := NewService(&memStore{}, nil, 0, zerolog.Nop())
	if _, err := svc.List(context.Background(), ""); !errors.Is(err, recommend.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Rating(context.Background(), ""); !errors.Is(err, recommend.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
