// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

// Package comments stores reader comments on books and scores them for
// sentiment as they arrive.
package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bookrec/internal/metrics"
	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/recommend/index"
	"github.com/tomtom215/bookrec/internal/sentiment"
)

// MaxTextLength bounds a comment body in bytes.
const MaxTextLength = 10000

// Comment is a reader's comment on a book.
type Comment struct {
	ID     string `json:"id" bson:"_id"`
	BookID string `json:"book_id" bson:"bookId"`
	UserID string `json:"user_id,omitempty" bson:"userId,omitempty"`
	Text   string `json:"text" bson:"text"`

	// Rating is the reader's own 1-5 rating, if given.
	Rating *int `json:"rating,omitempty" bson:"rating,omitempty"`

	// Sentiment is nil when the classifier was unavailable.
	Sentiment *sentiment.Result `json:"sentiment,omitempty" bson:"sentiment,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}

// Store persists comments.
type Store interface {
	InsertComment(ctx context.Context, c *Comment) error

	// CommentsForBook returns comments oldest first.
	CommentsForBook(ctx context.Context, bookID string) ([]Comment, error)
}

// PostInput is a new comment.
type PostInput struct {
	BookID string
	UserID string
	Text   string
	Rating *int
}

// BookRating is the aggregated sentiment of a book's comments.
type BookRating struct {
	BookID string `json:"book_id"`
	sentiment.Rating
}

// Service posts, lists and rates comments.
type Service struct {
	store            Store
	analyzer         sentiment.Analyzer
	sentimentTimeout time.Duration
	logger           zerolog.Logger
	now              func() time.Time
}

// NewService creates a comment service. analyzer may be nil, in which case
// comments are stored without sentiment.
func NewService(store Store, analyzer sentiment.Analyzer, sentimentTimeout time.Duration, logger zerolog.Logger) *Service {
	if sentimentTimeout <= 0 {
		sentimentTimeout = 5 * time.Second
	}
	return &Service{
		store:            store,
		analyzer:         analyzer,
		sentimentTimeout: sentimentTimeout,
		logger:           logger.With().Str("component", "comments").Logger(),
		now:              time.Now,
	}
}

// Post validates, scores and stores a comment. A sentiment failure is logged
// and the comment is stored without a score.
func (s *Service) Post(ctx context.Context, in PostInput) (*Comment, error) {
	if err := index.ValidateID(in.BookID); err != nil {
		return nil, err
	}
	if in.UserID != "" {
		if err := index.ValidateID(in.UserID); err != nil {
			return nil, err
		}
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: missing text", recommend.ErrInvalidInput)
	}
	if len(text) > MaxTextLength {
		return nil, fmt.Errorf("%w: text longer than %d bytes", recommend.ErrInvalidInput, MaxTextLength)
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, fmt.Errorf("%w: rating must be in [1, 5]", recommend.ErrInvalidInput)
	}

	c := &Comment{
		ID:        uuid.NewString(),
		BookID:    in.BookID,
		UserID:    in.UserID,
		Text:      text,
		Rating:    in.Rating,
		CreatedAt: s.now().UTC(),
	}
	c.Sentiment = s.score(ctx, c)

	if err := s.store.InsertComment(ctx, c); err != nil {
		return nil, fmt.Errorf("store comment: %w", err)
	}

	band := "none"
	if c.Sentiment != nil {
		band = string(c.Sentiment.Label)
	}
	metrics.CommentsTotal.WithLabelValues(band).Inc()

	s.logger.Debug().Str("book_id", c.BookID).Str("comment_id", c.ID).Str("band", band).Msg("comment stored")
	return c, nil
}

func (s *Service) score(ctx context.Context, c *Comment) *sentiment.Result {
	if s.analyzer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.sentimentTimeout)
	defer cancel()

	res, err := s.analyzer.Analyze(ctx, c.Text)
	if err != nil {
		if !errors.Is(err, sentiment.ErrDisabled) {
			s.logger.Warn().Err(err).Str("book_id", c.BookID).Msg("sentiment service failed")
		}
		return nil
	}
	return res
}

// List returns the comments on a book, oldest first.
func (s *Service) List(ctx context.Context, bookID string) ([]Comment, error) {
	if err := index.ValidateID(bookID); err != nil {
		return nil, err
	}
	list, err := s.store.CommentsForBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if list == nil {
		list = []Comment{}
	}
	return list, nil
}

// Rating aggregates the sentiment of a book's comments.
func (s *Service) Rating(ctx context.Context, bookID string) (*BookRating, error) {
	list, err := s.List(ctx, bookID)
	if err != nil {
		return nil, err
	}
	results := make([]*sentiment.Result, 0, len(list))
	for i := range list {
		results = append(results, list[i].Sentiment)
	}
	return &BookRating{BookID: bookID, Rating: sentiment.Aggregate(results)}, nil
}
