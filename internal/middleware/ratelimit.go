package middleware

import (
	"net/http"
	"strings"
	"sync"

	"github.com/radiusdt/ads-console/internal/config"
	"github.com/radiusdt/ads-console/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware throttles state-changing requests with token buckets.
// Reads are never limited.
type RateLimitMiddleware struct {
	cfg     config.RateLimitConfig
	logger  *zap.Logger
	metrics *metrics.Metrics
	limiter *rate.Limiter

	// Per-client limiters, keyed by client IP
	mu         sync.RWMutex
	ipLimiters map[string]*rate.Limiter
}

// NewRateLimitMiddleware creates a new rate limiting middleware.
func NewRateLimitMiddleware(cfg config.RateLimitConfig, logger *zap.Logger, m *metrics.Metrics) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		cfg:        cfg,
		logger:     logger,
		metrics:    m,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		ipLimiters: make(map[string]*rate.Limiter),
	}
}

// Handler wraps an http.Handler with rate limiting.
func (rl *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.cfg.Enabled || isRead(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		if !rl.clientLimiter(ip).Allow() {
			rl.reject(w, r, "client", ip)
			return
		}
		if !rl.limiter.Allow() {
			rl.reject(w, r, "global", ip)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimitMiddleware) reject(w http.ResponseWriter, r *http.Request, kind, ip string) {
	rl.logger.Warn("rate limit exceeded",
		zap.String("limiter", kind),
		zap.String("ip", ip),
		zap.String("path", r.URL.Path),
	)
	if rl.metrics != nil {
		rl.metrics.RecordRateLimitHit(kind)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "1")
	w.WriteHeader(http.StatusTooManyRequests)
	w.Write([]byte(`{"error":"rate limit exceeded"}`))
}

// clientLimiter returns or creates the limiter for ip.
func (rl *RateLimitMiddleware) clientLimiter(ip string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.ipLimiters[ip]
	rl.mu.RUnlock()

	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists = rl.ipLimiters[ip]; exists {
		return limiter
	}

	// A single operator gets half of the global budget.
	burst := rl.cfg.Burst / 2
	if burst < 1 {
		burst = 1
	}
	limiter = rate.NewLimiter(rate.Limit(rl.cfg.RPS/2), burst)
	rl.ipLimiters[ip] = limiter

	return limiter
}

// CleanupIPLimiters drops all per-client limiters.
func (rl *RateLimitMiddleware) CleanupIPLimiters() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.ipLimiters = make(map[string]*rate.Limiter)
	rl.logger.Debug("cleaned up client rate limiters")
}

func isRead(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

// clientIP extracts the client IP from the request.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
