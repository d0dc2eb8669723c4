// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package sentiment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/bookrec/internal/metrics"
)

// MaxTextRunes is the longest text sent to the classifier. Longer text is
// truncated.
const MaxTextRunes = 512

// maxErrorBodySize limits how much of an error response is read.
const maxErrorBodySize = 4 * 1024

// ErrDisabled is returned by Analyze when no classifier URL is configured.
var ErrDisabled = errors.New("sentiment analysis disabled")

// Analyzer scores a text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*Result, error)
}

// Config configures the classifier client.
type Config struct {
	// URL is the classifier base URL. Empty disables analysis.
	URL     string
	Timeout time.Duration

	// RateLimit caps outbound requests per second. Zero means unlimited.
	RateLimit float64
	Burst     int
}

// Client calls the external classifier at {URL}/analyze.
type Client struct {
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
	logger   zerolog.Logger
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// analyzeResponse accepts both raw classifier output ({"label":"POSITIVE",
// "score":0.98}) and output already mapped to a band ({"label":"good",
// "score":0.35}).
type analyzeResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NewClient creates a classifier client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	endpoint := ""
	if cfg.URL != "" {
		endpoint = strings.TrimRight(cfg.URL, "/") + "/analyze"
	}

	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		limiter:  limiter,
		logger:   logger.With().Str("component", "sentiment").Logger(),
	}
}

// Enabled reports whether a classifier URL is configured.
func (c *Client) Enabled() bool {
	return c.endpoint != ""
}

// Analyze scores text. It blocks while the outbound rate limit is exhausted.
func (c *Client) Analyze(ctx context.Context, text string) (res *Result, err error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	start := time.Now()
	defer func() {
		result := "success"
		if err != nil {
			result = "error"
		}
		metrics.RecordSentiment(result, time.Since(start))
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("sentiment rate limit: %w", err)
	}

	body, err := json.Marshal(analyzeRequest{Text: Truncate(text, MaxTextRunes)})
	if err != nil {
		return nil, fmt.Errorf("encode sentiment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create sentiment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sentiment request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize)) //nolint:errcheck // best-effort diagnostics
		return nil, fmt.Errorf("sentiment service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode sentiment response: %w", err)
	}

	if band, ok := ParseBand(out.Label); ok {
		// Already mapped by the service; trust its sign.
		r := Result{Score: clamp(out.Score), Label: band}
		return &r, nil
	}
	r := MapLabelToScore(out.Label, clamp(out.Score))
	return &r, nil
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

var _ Analyzer = (*Client)(nil)
