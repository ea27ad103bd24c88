package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radiusdt/ads-console/internal/config"
	"github.com/radiusdt/ads-console/internal/console"
	"github.com/radiusdt/ads-console/internal/metrics"
	"github.com/radiusdt/ads-console/internal/middleware"
)

// Dependencies holds all external dependencies for the server.
type Dependencies struct {
	Console *console.Console
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	// Surface is the chart surface the console draws on. When set, the
	// chart endpoint serves the bound chart from it.
	Surface *console.MemorySurface
	// RateLimiter is optional; nil disables request throttling.
	RateLimiter *middleware.RateLimitMiddleware
}

// Server exposes the console over JSON HTTP.
type Server struct {
	console *console.Console
	surface *console.MemorySurface
	logger  *zap.Logger
	config  *config.Config
	metrics *metrics.Metrics
}

// NewServer constructs a new http.Handler with all routes registered.
func NewServer(deps *Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		console: deps.Console,
		surface: deps.Surface,
		logger:  logger,
		config:  deps.Config,
		metrics: deps.Metrics,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.NewRecoveryMiddleware(logger, deps.Metrics).Handler)
	r.Use(middleware.NewLoggingMiddleware(logger, deps.Metrics).Handler)
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Handler)
	}

	// Health check
	r.Get("/health", s.handleHealth)

	// Prometheus metrics
	if deps.Metrics != nil && deps.Config != nil && deps.Config.Metrics.Enabled {
		r.Handle(deps.Config.Metrics.Path, deps.Metrics.Handler())
	}

	// Product table
	r.Get("/products", s.handleListProducts)
	r.Post("/products", s.handleCreateProduct)
	r.Post("/products/sort/{key}", s.handleSortBy)
	r.Get("/products/{id}", s.handleGetProduct)
	r.Patch("/products/{id}", s.handleEditProduct)
	r.Put("/products/{id}/budget", s.handleSetBudget)
	r.Put("/products/{id}/target-roas", s.handleSetTargetRoas)
	r.Get("/summary", s.handleSummary)

	// Columns
	r.Get("/columns", s.handleColumns)
	r.Post("/columns/{key}/toggle", s.handleToggleColumn)
	r.Post("/columns/move", s.handleMoveColumn)

	// Inline cell editing
	r.Get("/edit-cursor", s.handleGetCursor)
	r.Post("/edit-cursor", s.handleBeginEdit)
	r.Post("/edit-cursor/commit", s.handleCommitEdit)
	r.Delete("/edit-cursor", s.handleCancelEdit)

	// Report view
	r.Post("/report", s.handleOpenReport)
	r.Get("/report", s.handleGetReport)
	r.Delete("/report", s.handleCloseReport)
	r.Get("/report/series", s.handleSeries)
	r.Put("/report/series/{index}/{field}", s.handleEditSeriesCell)
	r.Get("/report/chart", s.handleChart)
	r.Post("/report/metrics/{metric}/toggle", s.handleToggleChartMetric)
	r.Put("/report/scope", s.handleSetScope)

	return r
}

// ---- Health Check ----

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, map[string]string{"status": "ok"})
}

// ---- Helpers ----

// appliedResponse answers a mutation. Ignored input is not an error: the
// body tells the caller whether state changed.
func (s *Server) appliedResponse(w http.ResponseWriter, applied bool, data interface{}) {
	s.jsonResponse(w, map[string]interface{}{"applied": applied, "data": data})
}

// reportError maps report view errors to status codes.
func (s *Server) reportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, console.ErrReportClosed):
		s.errorResponse(w, err.Error(), http.StatusConflict)
	case errors.Is(err, console.ErrUnknownChartMetric), errors.Is(err, console.ErrSurfaceBusy):
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error("report operation failed", zap.Error(err))
		s.errorResponse(w, "internal error", http.StatusInternalServerError)
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (s *Server) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) errorResponse(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
