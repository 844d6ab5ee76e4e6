package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"market-scout/utils"
)

const traceHeader = "X-Trace-ID"

// LoggerMiddleware attaches a trace id and a request logger to every request and logs
// its start and end. A valid incoming X-Trace-ID is kept; otherwise a new one is minted.
func LoggerMiddleware(logger *utils.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(traceHeader)
			if _, err := uuid.Parse(traceID); err != nil {
				traceID = uuid.New().String()
			}

			reqLogger := logger.With("trace_id", traceID)
			ctx := ContextWithLogger(r.Context(), reqLogger)
			ctx = ContextWithTraceID(ctx, traceID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set(traceHeader, traceID)
			start := time.Now()

			reqLogger.Debug("[http] %s %s started", r.Method, r.URL.Path)
			next.ServeHTTP(ww, r.WithContext(ctx))
			reqLogger.Info("[http] %s %s → %d (%d bytes, %dms)",
				r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start).Milliseconds())
		})
	}
}
