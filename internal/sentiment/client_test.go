// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package sentiment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientAnalyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		response  string
		wantScore float64
		wantBand  Band
	}{
		{"raw positive", `{"label":"POSITIVE","score":0.95}`, 0.95, BandExcellent},
		{"raw negative", `{"label":"NEGATIVE","score":0.4}`, -0.4, BandPoor},
		{"already mapped", `{"label":"good","score":0.35}`, 0.35, BandGood},
		{"mapped negative keeps sign", `{"label":"poor","score":-0.7}`, -0.7, BandPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/analyze" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.response))
			})

			c := NewClient(Config{URL: srv.URL + "/", Timeout: time.Second}, zerolog.Nop())
			got, err := c.Analyze(context.Background(), "a wonderful book")
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if got.Score != tt.wantScore || got.Label != tt.wantBand {
				t.Errorf("got %+v, want score %v band %q", got, tt.wantScore, tt.wantBand)
			}
		})
	}
}

func TestClientAnalyzeTruncatesText(t *testing.T) {
	t.Parallel()

	var received string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		received = req.Text
		_, _ = w.Write([]byte(`{"label":"POSITIVE","score":0.5}`))
	})

	c := NewClient(Config{URL: srv.URL}, zerolog.Nop())
	if _, err := c.Analyze(context.Background(), strings.Repeat("é", 2*MaxTextRunes)); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if n := utf8.RuneCountInString(received); n != MaxTextRunes {
		t.Errorf("classifier received %d runes, want %d", n, MaxTextRunes)
	}
}

func TestClientAnalyzeErrors(t *testing.T) {
	t.Parallel()

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		c := NewClient(Config{}, zerolog.Nop())
		if c.Enabled() {
			t.Error("client without URL should be disabled")
		}
		if _, err := c.Analyze(context.Background(), "x"); !errors.Is(err, ErrDisabled) {
			t.Errorf("err = %v, want ErrDisabled", err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not loaded", http.StatusInternalServerError)
		})
		c := NewClient(Config{URL: srv.URL}, zerolog.Nop())
		_, err := c.Analyze(context.Background(), "x")
		if err == nil || !strings.Contains(err.Error(), "500") {
			t.Errorf("err = %v, want status 500 error", err)
		}
	})

	t.Run("bad json", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		})
		c := NewClient(Config{URL: srv.URL}, zerolog.Nop())
		if _, err := c.Analyze(context.Background(), "x"); err == nil {
			t.Error("expected decode error")
		}
	})

	t.Run("cancelled while rate limited", func(t *testing.T) {
		t.Parallel()
		srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"label":"POSITIVE","score":0.5}`))
		})
		c := NewClient(Config{URL: srv.URL, RateLimit: 0.001, Burst: 1}, zerolog.Nop())
		if _, err := c.Analyze(context.Background(), "first"); err != nil {
			t.Fatalf("first call should use the burst: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		if _, err := c.Analyze(ctx, "second"); err == nil {
			t.Error("second call should fail waiting for the limiter")
		}
	})
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "hé"},
		{"abc", 0, ""},
		{"", 4, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
