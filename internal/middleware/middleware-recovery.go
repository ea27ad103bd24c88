package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/radiusdt/ads-console/internal/metrics"
)

// RecoveryMiddleware turns a panic in a handler into a 500 JSON answer.
// Console operations only panic on programmer errors, such as a column move
// with an index nobody validated.
type RecoveryMiddleware struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewRecoveryMiddleware(logger *zap.Logger, m *metrics.Metrics) *RecoveryMiddleware {
	return &RecoveryMiddleware{logger: logger, metrics: m}
}

func (rm *RecoveryMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			// Let the server abort the connection as it normally would.
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			id := GetRequestID(r.Context())
			rm.logger.Error("handler panicked",
				zap.Any("panic", rec),
				zap.String("request_id", id),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.ByteString("stack", debug.Stack()),
			)
			if rm.metrics != nil {
				rm.metrics.RecordPanic()
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":      "internal server error",
				"request_id": id,
			})
		}()
		next.ServeHTTP(w, r)
	})
}
