package middleware

import (
	"net/http"

	"github.com/barefootnomad/backend/pkg/logger"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

// RequestID propagates X-Trace-ID, generating one when absent, and tags the
// context logger with it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		// inject into context
		ctx := logger.With(r.Context(), "traceID", traceID, "request_id", middleware.GetReqID(r.Context()))

		// propagate back to response
		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
