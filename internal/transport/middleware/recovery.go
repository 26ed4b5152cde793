package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/barefootnomad/backend/internal/transport"
)

// RecoveryMiddleware provides panic recovery with detailed logging
func RecoveryMiddleware(h *transport.BaseHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}

					stack := string(debug.Stack())
					h.Logger.Error("panic recovered",
						"error", rec,
						"method", r.Method,
						"url", r.URL.String(),
						"stack", stack)

					h.HandleServiceError(w, panicError{value: rec, stack: stack})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

type panicError struct {
	value interface{}
	stack string
}

func (p panicError) Error() string {
	return fmt.Sprintf("panic: %v\n%s", p.value, p.stack)
}

