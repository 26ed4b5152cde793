package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
)

const masked = "[FILTERED]"

// Body and header keys are masked when their lower-cased name contains one of
// these. This covers password, signupToken, token and the Authorization header.
var secretKeyParts = []string{
	"password",
	"token",
	"secret",
	"authorization",
	"cookie",
}

// Query parameters carrying secrets. The OAuth callback receives the provider
// code and the state that is compared against the oauth_state cookie. Bodies
// are not matched against these since "state" is also an address field.
var secretQueryParams = map[string]bool{
	"code":         true,
	"state":        true,
	"token":        true,
	"access_token": true,
	"signupToken":  true,
}

func isSecretKey(key string) bool {
	key = strings.ToLower(key)
	for _, part := range secretKeyParts {
		if strings.Contains(key, part) {
			return true
		}
	}
	return false
}

// LoggingMiddleware logs every request and response with secrets masked.
// Paths in skip are not logged.
func LoggingMiddleware(logger *slog.Logger, skip ...string) func(next http.Handler) http.Handler {
	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipped[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			reqID := middleware.GetReqID(r.Context())

			var body []byte
			if r.Body != nil {
				body, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewReader(body))
			}
			logger.Info("incoming request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"query", maskQuery(r.URL.RawQuery),
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", maskHeaders(r.Header),
				"body", maskBody(body),
			)

			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			switch {
			case rec.status >= 500:
				level = slog.LevelError
			case rec.status >= 400:
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "response",
				"request_id", reqID,
				"status_code", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", rec.body.Len(),
				"body", maskBody(rec.body.Bytes()),
			)
		})
	}
}

// recordingWriter keeps a copy of the status and body for the response log.
type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

func maskQuery(raw string) string {
	if raw == "" {
		return ""
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return masked
	}
	for key := range values {
		if secretQueryParams[key] || isSecretKey(key) {
			values.Set(key, masked)
		}
	}
	return values.Encode()
}

func maskHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSecretKey(name) {
			out[name] = masked
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// maskBody returns the JSON body with secret fields masked at any depth.
// Bodies that are not JSON are dropped when they mention a secret key.
func maskBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		if isSecretKey(string(body)) {
			return "[FILTERED - Contains sensitive data]"
		}
		return string(body)
	}

	out, err := json.Marshal(maskValue(doc))
	if err != nil {
		return "[ERROR - Failed to marshal filtered JSON]"
	}
	return string(out)
}

func maskValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for key, value := range v {
			if isSecretKey(key) {
				v[key] = masked
			} else {
				v[key] = maskValue(value)
			}
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = maskValue(item)
		}
		return v
	default:
		return v
	}
}
