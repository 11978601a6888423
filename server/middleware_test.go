package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shinysc/statcan-tables-api/config"
)

func TestGetTokenCost(t *testing.T) {
	tests := []struct {
		path string
		want int64
	}{
		{"/", 0},
		{"/metrics", 0},
		{"/health", 5},
		{"/tables/1", 20},
		{"/table/34100292", 50},
		{"/table/34100292/url", 50},
		{"/search/prices", 50},
		{"/something-else", 20},
	}

	for _, tc := range tests {
		r := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if got := getTokenCost(r); got != tc.want {
			t.Errorf("getTokenCost(%s) = %d, want %d", tc.path, got, tc.want)
		}
	}
}

func TestRealIPMiddleware(t *testing.T) {
	var seen string
	handler := RealIPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.RemoteAddr
	}))

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if seen != "203.0.113.7" {
		t.Errorf("RemoteAddr = %q, want 203.0.113.7", seen)
	}
}

func TestBlockDirectAccessMiddleware(t *testing.T) {
	handler := BlockDirectAccessMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       int
	}{
		{"localhost allowed", "127.0.0.1:5000", "", http.StatusOK},
		{"ipv6 localhost allowed", "[::1]:5000", "", http.StatusOK},
		{"proxied request allowed", "192.0.2.1:1234", "203.0.113.7", http.StatusOK},
		{"direct access blocked", "192.0.2.1:1234", "", http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/health", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestRequestSizeMiddleware(t *testing.T) {
	cfg := &config.Config{MaxRequestBody: 100, MaxHeaderSize: 4096}
	handler := RequestSizeMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("small body passes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/table/34100292/url", strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("oversized body rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/table/34100292/url", strings.NewReader(strings.Repeat("x", 200)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want 413", rec.Code)
		}
	})

	t.Run("oversized headers rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/health", nil)
		r.Header.Set("X-Big", strings.Repeat("a", 5000))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		if rec.Code != http.StatusRequestHeaderFieldsTooLarge {
			t.Errorf("status = %d, want 431", rec.Code)
		}
	})
}

func TestRateLimitHandlerSetsHeaders(t *testing.T) {
	handler := RateLimitHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.RemoteAddr = "198.51.100.10:4000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "1000" {
		t.Error("missing X-RateLimit-Limit header")
	}
	if rec.Header().Get("X-RateLimit-Remaining") == "" {
		t.Error("missing X-RateLimit-Remaining header")
	}
}

func TestRateLimitHandlerExhaustsBucket(t *testing.T) {
	handler := RateLimitHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// 1000 tokens at 50 per search request allows 20 requests
	var limited bool
	for i := 0; i < 30; i++ {
		r := httptest.NewRequest(http.MethodGet, "/search/prices", nil)
		r.RemoteAddr = "198.51.100.99:4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			if rec.Header().Get("Retry-After") == "" {
				t.Error("429 response should carry Retry-After")
			}
			break
		}
	}

	if !limited {
		t.Error("bucket should run out within 30 search requests")
	}
}
