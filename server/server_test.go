package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shinysc/statcan-tables-api/config"
	"github.com/shinysc/statcan-tables-api/logging"
)

// stubHandler implements interfaces.HTTPHandler, recording which endpoint ran
type stubHandler struct {
	called map[string]int
}

func newStubHandler() *stubHandler {
	return &stubHandler{called: make(map[string]int)}
}

func (s *stubHandler) mark(name string, w http.ResponseWriter) {
	s.called[name]++
	w.WriteHeader(http.StatusOK)
}

func (s *stubHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Not implemented", http.StatusNotImplemented)
}

func (s *stubHandler) ServePagedTables(w http.ResponseWriter, r *http.Request) {
	s.mark("tables", w)
}

func (s *stubHandler) DescribeTable(w http.ResponseWriter, r *http.Request) {
	s.mark("describe", w)
}

func (s *stubHandler) BuildTableURL(w http.ResponseWriter, r *http.Request) {
	s.mark("url", w)
}

func (s *stubHandler) BuildFilteredTableURL(w http.ResponseWriter, r *http.Request) {
	s.mark("filteredURL", w)
}

func (s *stubHandler) SearchTables(w http.ResponseWriter, r *http.Request) {
	s.mark("search", w)
}

func (s *stubHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	s.mark("health", w)
}

func testConfig() *config.Config {
	return &config.Config{
		Port:           "8080",
		Address:        "127.0.0.1",
		Env:            "test",
		LogLevel:       "info",
		MaxRequestBody: 1048576,
		MaxHeaderSize:  1048576,
	}
}

func serve(srv *Server, method, target string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, nil)
	r.RemoteAddr = "127.0.0.1:5000"
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, r)
	return rec
}

func TestNewServer(t *testing.T) {
	logging.InitLogger(t.TempDir())

	srv := NewServer(testConfig(), newStubHandler())
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.server.Addr != "127.0.0.1:8080" {
		t.Errorf("Addr = %q, want 127.0.0.1:8080", srv.server.Addr)
	}
	if srv.server.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout = %v, want 15s", srv.server.ReadTimeout)
	}
}

func TestRoutes(t *testing.T) {
	logging.InitLogger(t.TempDir())

	handler := newStubHandler()
	srv := NewServer(testConfig(), handler)

	routes := []struct {
		method string
		target string
		name   string
	}{
		{http.MethodGet, "/tables/1", "tables"},
		{http.MethodGet, "/table/34100292", "describe"},
		{http.MethodGet, "/table/34100292/url", "url"},
		{http.MethodPost, "/table/34100292/url", "filteredURL"},
		{http.MethodGet, "/search/prices", "search"},
		{http.MethodGet, "/health", "health"},
	}

	for _, route := range routes {
		rec := serve(srv, route.method, route.target)
		if rec.Code != http.StatusOK {
			t.Errorf("%s %s = %d, want 200", route.method, route.target, rec.Code)
		}
		if handler.called[route.name] != 1 {
			t.Errorf("%s %s did not reach the %s handler", route.method, route.target, route.name)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	logging.InitLogger(t.TempDir())

	srv := NewServer(testConfig(), newStubHandler())
	rec := serve(srv, http.MethodGet, "/metrics")

	if rec.Code != http.StatusOK {
		t.Errorf("GET /metrics = %d, want 200", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("metrics body should not be empty")
	}
}

func TestRootIndex(t *testing.T) {
	logging.InitLogger(t.TempDir())

	srv := NewServer(testConfig(), newStubHandler())
	rec := serve(srv, http.MethodGet, "/")

	if rec.Code != http.StatusOK {
		t.Errorf("GET / = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	logging.InitLogger(t.TempDir())

	srv := NewServer(testConfig(), newStubHandler())
	if rec := serve(srv, http.MethodGet, "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /nope = %d, want 404", rec.Code)
	}
}

func TestDirectAccessBlockedThroughStack(t *testing.T) {
	logging.InitLogger(t.TempDir())

	srv := NewServer(testConfig(), newStubHandler())

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.RemoteAddr = "192.0.2.50:4000"
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, r)

	if rec.Code != http.StatusForbidden {
		t.Errorf("direct access = %d, want 403", rec.Code)
	}
}

func TestShutdownWithoutStart(t *testing.T) {
	logging.InitLogger(t.TempDir())

	srv := NewServer(testConfig(), newStubHandler())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown on an unstarted server should not error: %v", err)
	}
}
