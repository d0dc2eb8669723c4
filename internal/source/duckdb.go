// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bookrec/internal/comments"
	"github.com/tomtom215/bookrec/internal/metrics"
	"github.com/tomtom215/bookrec/internal/recommend"
	"github.com/tomtom215/bookrec/internal/recommend/corpus"
	"github.com/tomtom215/bookrec/internal/recommend/profile"
	"github.com/tomtom215/bookrec/internal/sentiment"
)

// DuckDBConfig configures the offline source.
type DuckDBConfig struct {
	// BooksCSV is the catalog file. It must have an id column.
	BooksCSV string

	// InteractionsCSV holds userId,bookId,type,value rows. Optional: a
	// missing file means no user has history.
	InteractionsCSV string

	// Path is the database file holding comments. Empty keeps comments in
	// memory.
	Path string

	Timeout time.Duration
}

// DuckDB reads the catalog and interactions from CSV files and keeps
// comments in a DuckDB table.
type DuckDB struct {
	conn            *sql.DB
	booksCSV        string
	interactionsCSV string
	timeout         time.Duration
	breaker         *Breaker
	logger          zerolog.Logger
}

var commentsSchema = []string{`
CREATE TABLE IF NOT EXISTS comments (
	id              VARCHAR PRIMARY KEY,
	book_id         VARCHAR NOT NULL,
	user_id         VARCHAR,
	text            VARCHAR NOT NULL,
	rating          INTEGER,
	sentiment_score DOUBLE,
	sentiment_label VARCHAR,
	created_at      TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_book_id ON comments (book_id)`,
}

// OpenDuckDB opens the database and creates the comments table.
func OpenDuckDB(ctx context.Context, cfg DuckDBConfig, breaker *Breaker, logger zerolog.Logger) (*DuckDB, error) {
	if cfg.BooksCSV == "" {
		return nil, errors.New("source: duckdb books CSV path is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	if cfg.Path != "" {
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dir, err)
			}
		}
	}

	conn, err := sql.Open("duckdb", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	for _, stmt := range commentsSchema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			_ = conn.Close() //nolint:errcheck // schema error takes precedence
			return nil, fmt.Errorf("create comments table: %w", err)
		}
	}

	return &DuckDB{
		conn:            conn,
		booksCSV:        cfg.BooksCSV,
		interactionsCSV: cfg.InteractionsCSV,
		timeout:         cfg.Timeout,
		breaker:         breaker,
		logger:          logger.With().Str("component", "source").Str("source", "duckdb").Logger(),
	}, nil
}

func (d *DuckDB) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	err := d.breaker.Do(func() error { return fn(ctx) })
	metrics.RecordSourceQuery("duckdb", op, time.Since(start), err)
	return err
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func csvQuery(path string) string {
	return fmt.Sprintf("SELECT * FROM read_csv_auto(%s, header = true, all_varchar = true)", quoteLiteral(path))
}

// readCSV returns every row of path as a Record keyed by lowercased header.
func (d *DuckDB) readCSV(ctx context.Context, path string) ([]corpus.Record, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, unavailable("stat "+path, err)
	}

	rows, err := d.conn.QueryContext(ctx, csvQuery(path))
	if err != nil {
		return nil, unavailable("read "+path, err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	for i := range cols {
		cols[i] = strings.ToLower(strings.TrimSpace(cols[i]))
	}

	var records []corpus.Record
	values := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan csv row: %w", err)
		}
		rec := make(corpus.Record, len(cols))
		for i, col := range cols {
			if values[i].Valid {
				rec[col] = values[i].String
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate "+path, err)
	}
	return records, nil
}

// Documents implements corpus.DocumentSource.
func (d *DuckDB) Documents(ctx context.Context) ([]corpus.Record, error) {
	var records []corpus.Record
	err := d.run(ctx, "documents", func(ctx context.Context) error {
		rows, err := d.readCSV(ctx, d.booksCSV)
		if err != nil {
			return err
		}
		for _, rec := range rows {
			records = append(records, normalizeRecord(rec))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Interaction CSV headers, lowercased.
var (
	userIDColumns = []string{"userid", "user_id"}
	bookIDColumns = []string{"bookid", "book_id"}
	weightColumns = []string{"value", "weight"}
)

func firstField(rec corpus.Record, names []string) string {
	for _, n := range names {
		if v, ok := rec[n]; ok {
			return corpus.Stringify(v)
		}
	}
	return ""
}

// InteractionsForUser implements profile.InteractionSource.
func (d *DuckDB) InteractionsForUser(ctx context.Context, userID string) ([]recommend.Interaction, error) {
	if d.interactionsCSV == "" {
		return nil, nil
	}
	if _, err := os.Stat(d.interactionsCSV); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	var out []recommend.Interaction
	err := d.run(ctx, "interactions", func(ctx context.Context) error {
		rows, err := d.readCSV(ctx, d.interactionsCSV)
		if err != nil {
			return err
		}
		for _, rec := range rows {
			if firstField(rec, userIDColumns) != userID {
				continue
			}
			out = append(out, recommend.Interaction{
				UserID: userID,
				BookID: firstField(rec, bookIDColumns),
				Type:   corpus.Stringify(rec["type"]),
				Weight: parseWeight(firstField(rec, weightColumns)),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// InsertComment implements comments.Store.
func (d *DuckDB) InsertComment(ctx context.Context, c *comments.Comment) error {
	return d.run(ctx, "insert_comment", func(ctx context.Context) error {
		var (
			rating sql.NullInt64
			score  sql.NullFloat64
			label  sql.NullString
		)
		if c.Rating != nil {
			rating = sql.NullInt64{Int64: int64(*c.Rating), Valid: true}
		}
		if c.Sentiment != nil {
			score = sql.NullFloat64{Float64: c.Sentiment.Score, Valid: true}
			label = sql.NullString{String: string(c.Sentiment.Label), Valid: true}
		}

		_, err := d.conn.ExecContext(ctx,
			`INSERT INTO comments (id, book_id, user_id, text, rating, sentiment_score, sentiment_label, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.BookID, c.UserID, c.Text, rating, score, label, c.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
		return nil
	})
}

// CommentsForBook implements comments.Store.
func (d *DuckDB) CommentsForBook(ctx context.Context, bookID string) ([]comments.Comment, error) {
	var out []comments.Comment
	err := d.run(ctx, "list_comments", func(ctx context.Context) error {
		rows, err := d.conn.QueryContext(ctx,
			`SELECT id, book_id, user_id, text, rating, sentiment_score, sentiment_label, created_at
			 FROM comments WHERE book_id = ? ORDER BY created_at, id`, bookID)
		if err != nil {
			return fmt.Errorf("query comments: %w", err)
		}
		defer rows.Close() //nolint:errcheck // read-only rows

		for rows.Next() {
			var (
				c      comments.Comment
				userID sql.NullString
				rating sql.NullInt64
				score  sql.NullFloat64
				label  sql.NullString
			)
			if err := rows.Scan(&c.ID, &c.BookID, &userID, &c.Text, &rating, &score, &label, &c.CreatedAt); err != nil {
				return fmt.Errorf("scan comment: %w", err)
			}
			c.UserID = userID.String
			if rating.Valid {
				r := int(rating.Int64)
				c.Rating = &r
			}
			if score.Valid {
				c.Sentiment = &sentiment.Result{Score: score.Float64, Label: sentiment.Band(label.String)}
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Ping checks that the database and the books file are reachable.
func (d *DuckDB) Ping(ctx context.Context) error {
	return d.run(ctx, "ping", func(ctx context.Context) error {
		if _, err := os.Stat(d.booksCSV); err != nil {
			return unavailable("stat "+d.booksCSV, err)
		}
		return unavailable("duckdb ping", d.conn.PingContext(ctx))
	})
}

// Close closes the database.
func (d *DuckDB) Close() error {
	return d.conn.Close()
}

// Verify interface implementations at compile time
var (
	_ corpus.DocumentSource     = (*DuckDB)(nil)
	_ profile.InteractionSource = (*DuckDB)(nil)
	_ comments.Store            = (*DuckDB)(nil)
)
