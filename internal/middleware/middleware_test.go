package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/radiusdt/ads-console/internal/config"
	"github.com/radiusdt/ads-console/internal/metrics"
	"go.uber.org/zap"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rr.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("generated id: context=%q header=%q", seen, rr.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if seen != "abc-123" {
		t.Fatalf("caller id not reused: %q", seen)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	h := RequestID(NewRecoveryMiddleware(zap.NewNop(), m).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/x", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d want 500", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["request_id"] == "" || body["request_id"] != rr.Header().Get(RequestIDHeader) {
		t.Fatalf("request id: body %q header %q", body["request_id"], rr.Header().Get(RequestIDHeader))
	}
}

func TestLoggingMiddlewareRecordsStatus(t *testing.T) {
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	h := NewLoggingMiddleware(zap.NewNop(), m).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tea", nil))
	if rr.Code != http.StatusTeapot {
		t.Fatalf("status: got %d", rr.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2}
	rl := NewRateLimitMiddleware(cfg, zap.NewNop(), nil)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	// Reads are never limited.
	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products", nil))
		if rr.Code != http.StatusNoContent {
			t.Fatalf("read %d: status %d", i, rr.Code)
		}
	}

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/columns/move", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}
	// The per-client bucket holds half the burst.
	if code := post(); code != http.StatusNoContent {
		t.Fatalf("first write: status %d", code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Fatalf("second write: got %d want 429", code)
	}

	rl.CleanupIPLimiters()
	if code := post(); code != http.StatusNoContent {
		t.Fatalf("write after cleanup: status %d", code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:1234"
	if got := clientIP(req); got != "192.168.1.9" {
		t.Fatalf("remote addr: %q", got)
	}
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	if got := clientIP(req); got != "1.2.3.4" {
		t.Fatalf("forwarded: %q", got)
	}
}
