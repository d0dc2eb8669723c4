// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

//go:build integration

package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tomtom215/bookrec/internal/comments"
	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/recommend/corpus"
	"github.com/tomtom215/bookrec/internal/sentiment"
	"github.com/tomtom215/bookrec/internal/testinfra"
)

func TestMongo_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	mongoC, err := testinfra.NewMongoContainer(ctx)
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, mongoC)

	cfg := MongoConfig{
		URI:                    mongoC.URI,
		Database:               "bookrec_test",
		BooksCollection:        "books",
		InteractionsCollection: "interactions",
		CommentsCollection:     "comments",
		Timeout:                10 * time.Second,
	}
	m, err := ConnectMongo(ctx, cfg, NewBreaker("mongo-it", DefaultBreakerConfig(), zerolog.Nop()), zerolog.Nop())
	if err != nil {
		t.Fatalf("ConnectMongo: %v", err)
	}
	defer m.Close(ctx) //nolint:errcheck

	bookID := bson.NewObjectID()
	_, err = m.books.InsertMany(ctx, []any{
		bson.M{"_id": bookID, "title": "Emma", "author": "Jane Austen", "genre": "romance",
			"description": "Matchmaking", "tags": bson.A{"regency", "comedy"}},
		bson.M{"_id": "b2", "title": "Dune", "authors": "Frank Herbert", "genres": "scifi;classic"},
	})
	if err != nil {
		t.Fatalf("seed books: %v", err)
	}
	_, err = m.interactions.InsertMany(ctx, []any{
		bson.M{"userId": "u1", "bookId": bookID, "type": "view", "value": "2"},
		bson.M{"userId": "u1", "bookId": "b2", "type": "rating", "value": 4.5},
		bson.M{"userId": "u2", "bookId": "b2"},
	})
	if err != nil {
		t.Fatalf("seed interactions: %v", err)
	}

	t.Run("documents", func(t *testing.T) {
		records, err := m.Documents(ctx)
		if err != nil {
			t.Fatalf("Documents: %v", err)
		}
		c := corpus.New(mapItems(records))
		if c.Len() != 2 {
			t.Fatalf("corpus has %d items, want 2", c.Len())
		}
		if _, ok := c.Lookup(bookID.Hex()); !ok {
			t.Error("object id should be exposed as hex")
		}
		row, ok := c.Lookup("b2")
		if !ok {
			t.Fatal("b2 missing")
		}
		if it := c.Items[row]; it.Author != "Frank Herbert" || it.Genre != "scifi classic" {
			t.Errorf("b2 = %+v", it)
		}
	})

	t.Run("interactions", func(t *testing.T) {
		got, err := m.InteractionsForUser(ctx, "u1")
		if err != nil {
			t.Fatalf("InteractionsForUser: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d interactions, want 2", len(got))
		}
		weights := map[string]float64{}
		for _, in := range got {
			weights[in.BookID] = in.Weight
		}
		if weights[bookID.Hex()] != 2 || weights["b2"] != 4.5 {
			t.Errorf("weights = %v", weights)
		}
	})

	t.Run("comments", func(t *testing.T) {
		base := time.Now().UTC().Truncate(time.Millisecond)
		for i, text := range []string{"first", "second"} {
			c := &comments.Comment{
				ID: text, BookID: "b2", Text: text, CreatedAt: base.Add(time.Duration(i) * time.Second),
				Sentiment: &sentiment.Result{Score: 0.5, Label: sentiment.BandGood},
			}
			if err := m.InsertComment(ctx, c); err != nil {
				t.Fatalf("InsertComment: %v", err)
			}
		}
		got, err := m.CommentsForBook(ctx, "b2")
		if err != nil {
			t.Fatalf("CommentsForBook: %v", err)
		}
		if len(got) != 2 || got[0].Text != "first" || got[1].Sentiment == nil {
			t.Errorf("comments = %+v", got)
		}
	})

	t.Run("unavailable after disconnect", func(t *testing.T) {
		other, err := ConnectMongo(ctx, cfg, NewBreaker("mongo-it-2", DefaultBreakerConfig(), zerolog.Nop()), zerolog.Nop())
		if err != nil {
			t.Fatalf("ConnectMongo: %v", err)
		}
		_ = other.Close(ctx)
		if _, err := other.Documents(ctx); !errors.Is(err, recommend.ErrSourceUnavailable) {
			t.Errorf("err = %v, want ErrSourceUnavailable", err)
		}
	})
}

func TestConnectMongoMissingURI(t *testing.T) {
	_, err := ConnectMongo(context.Background(), MongoConfig{}, NewBreaker("mongo-nouri", DefaultBreakerConfig(), zerolog.Nop()), zerolog.Nop())
	if !errors.Is(err, ErrMissingMongoURI) {
		t.Errorf("err = %v, want ErrMissingMongoURI", err)
	}
}

func mapItems(records []corpus.Record) []recommend.Item {
	items := make([]recommend.Item, 0, len(records))
	for _, r := range records {
		items = append(items, corpus.ToItem(r))
	}
	return items
}
