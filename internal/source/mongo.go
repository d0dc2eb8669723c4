// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tomtom215/bookrec/internal/comments"
	"github.com/tomtom215/bookrec/internal/metrics"
	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/recommend/corpus"
	"github.com/tomtom215/bookrec/internal/recommend/profile"
)

// ErrMissingMongoURI is returned when no connection string is configured.
var ErrMissingMongoURI = errors.New("source: missing MongoDB URI")

// MongoConfig configures the MongoDB source.
type MongoConfig struct {
	URI                    string
	Database               string
	BooksCollection        string
	InteractionsCollection string
	CommentsCollection     string

	// Timeout bounds each query.
	Timeout time.Duration
}

// Mongo reads books and interactions from MongoDB and stores comments.
type Mongo struct {
	client       *mongo.Client
	books        *mongo.Collection
	interactions *mongo.Collection
	comments     *mongo.Collection
	timeout      time.Duration
	breaker      *Breaker
	logger       zerolog.Logger
}

// mongoInteraction mirrors a document of the interactions collection.
type mongoInteraction struct {
	UserID string `bson:"userId"`
	BookID any    `bson:"bookId"`
	Type   string `bson:"type,omitempty"`
	Value  any    `bson:"value,omitempty"`
}

// ConnectMongo creates a MongoDB client and pings it. The driver connects
// lazily, so an unreachable server only logs a warning: reads fail with
// ErrSourceUnavailable until it comes back. Only an invalid URI is an error.
func ConnectMongo(ctx context.Context, cfg MongoConfig, breaker *Breaker, logger zerolog.Logger) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, ErrMissingMongoURI
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(cfg.URI).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	m := NewMongo(client, cfg, breaker, logger)
	if err := client.Ping(ctx, nil); err != nil {
		m.logger.Warn().Err(err).Msg("MongoDB unreachable at startup, continuing")
	}
	return m, nil
}

// NewMongo wraps an existing client.
func NewMongo(client *mongo.Client, cfg MongoConfig, breaker *Breaker, logger zerolog.Logger) *Mongo {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	db := client.Database(cfg.Database)
	return &Mongo{
		client:       client,
		books:        db.Collection(cfg.BooksCollection),
		interactions: db.Collection(cfg.InteractionsCollection),
		comments:     db.Collection(cfg.CommentsCollection),
		timeout:      cfg.Timeout,
		breaker:      breaker,
		logger:       logger.With().Str("component", "source").Str("source", "mongo").Logger(),
	}
}

func (m *Mongo) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	err := m.breaker.Do(func() error { return fn(ctx) })
	metrics.RecordSourceQuery("mongo", op, time.Since(start), err)
	return err
}

// Documents implements corpus.DocumentSource.
func (m *Mongo) Documents(ctx context.Context) ([]corpus.Record, error) {
	var records []corpus.Record
	err := m.run(ctx, "documents", func(ctx context.Context) error {
		cursor, err := m.books.Find(ctx, bson.D{})
		if err != nil {
			return unavailable("find books", err)
		}
		defer cursor.Close(ctx) //nolint:errcheck // read-only cursor

		for cursor.Next(ctx) {
			var doc bson.M
			if err := cursor.Decode(&doc); err != nil {
				return fmt.Errorf("decode book: %w", err)
			}
			records = append(records, normalizeRecord(fromBSON(doc)))
		}
		if err := cursor.Err(); err != nil {
			return unavailable("iterate books", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// fromBSON converts a decoded document into a Record, turning nested arrays
// into []any so corpus.Stringify can flatten them.
func fromBSON(doc bson.M) corpus.Record {
	rec := make(corpus.Record, len(doc))
	for k, v := range doc {
		rec[k] = fromBSONValue(v)
	}
	return rec
}

func fromBSONValue(v any) any {
	switch val := v.(type) {
	case bson.A:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = fromBSONValue(e)
		}
		return out
	case bson.ObjectID:
		return val.Hex()
	default:
		return v
	}
}

// InteractionsForUser implements profile.InteractionSource.
func (m *Mongo) InteractionsForUser(ctx context.Context, userID string) ([]recommend.Interaction, error) {
	var out []recommend.Interaction
	err := m.run(ctx, "interactions", func(ctx context.Context) error {
		cursor, err := m.interactions.Find(ctx, bson.D{{Key: "userId", Value: userID}})
		if err != nil {
			return unavailable("find interactions", err)
		}
		defer cursor.Close(ctx) //nolint:errcheck // read-only cursor

		for cursor.Next(ctx) {
			var doc mongoInteraction
			if err := cursor.Decode(&doc); err != nil {
				m.logger.Warn().Err(err).Str("user_id", userID).Msg("skipping undecodable interaction")
				continue
			}
			out = append(out, recommend.Interaction{
				UserID: doc.UserID,
				BookID: corpus.Stringify(fromBSONValue(doc.BookID)),
				Type:   doc.Type,
				Weight: parseWeight(doc.Value),
			})
		}
		if err := cursor.Err(); err != nil {
			return unavailable("iterate interactions", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// InsertComment implements comments.Store.
func (m *Mongo) InsertComment(ctx context.Context, c *comments.Comment) error {
	return m.run(ctx, "insert_comment", func(ctx context.Context) error {
		if _, err := m.comments.InsertOne(ctx, c); err != nil {
			return unavailable("insert comment", err)
		}
		return nil
	})
}

// CommentsForBook implements comments.Store.
func (m *Mongo) CommentsForBook(ctx context.Context, bookID string) ([]comments.Comment, error) {
	var out []comments.Comment
	err := m.run(ctx, "list_comments", func(ctx context.Context) error {
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
		cursor, err := m.comments.Find(ctx, bson.D{{Key: "bookId", Value: bookID}}, opts)
		if err != nil {
			return unavailable("find comments", err)
		}
		defer cursor.Close(ctx) //nolint:errcheck // read-only cursor

		if err := cursor.All(ctx, &out); err != nil {
			return fmt.Errorf("decode comments: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Ping checks connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.run(ctx, "ping", func(ctx context.Context) error {
		return unavailable("mongo ping", m.client.Ping(ctx, nil))
	})
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Verify interface implementations at compile time
var (
	_ corpus.DocumentSource     = (*Mongo)(nil)
	_ profile.InteractionSource = (*Mongo)(nil)
	_ comments.Store            = (*Mongo)(nil)
)
