package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/role"
	"github.com/barefootnomad/backend/internal/transport"
	"github.com/barefootnomad/backend/internal/transport/middleware"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

func withIdentity(identity internal.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(internal.ContextWithIdentity(r.Context(), identity)))
		})
	}
}

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"success"}`))
}

func failMessage(rec *httptest.ResponseRecorder) string {
	var body struct {
		Status string `json:"status"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	Expect(json.NewDecoder(rec.Body).Decode(&body)).To(Succeed())
	Expect(body.Status).To(Equal("fail"))
	return body.Error.Message
}

var _ = Describe("Permission middleware", func() {
	var base *transport.BaseHandler

	BeforeEach(func() {
		base = &transport.BaseHandler{Logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))}
	})

	Describe("RequireSelf", func() {
		route := func(identity *internal.Identity) *chi.Mux {
			r := chi.NewRouter()
			group := r.With()
			if identity != nil {
				group = group.With(withIdentity(*identity))
			}
			group.With(middleware.RequireSelf(base, "id")).Get("/users/{id}", ok)
			return r
		}

		It("should pass the owner through", func() {
			rec := httptest.NewRecorder()
			route(&internal.Identity{UserID: 7, RoleID: role.Requester}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/7", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("should refuse another user's id", func() {
			rec := httptest.NewRecorder()
			route(&internal.Identity{UserID: 7, RoleID: role.Admin}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/8", nil))

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(failMessage(rec)).To(Equal("Access denied, check your inputed details"))
		})

		It("should refuse a non-numeric id", func() {
			rec := httptest.NewRecorder()
			route(&internal.Identity{UserID: 7}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should require an identity", func() {
			rec := httptest.NewRecorder()
			route(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/7", nil))

			Expect(failMessage(rec)).To(Equal("Access denied, no token provided"))
		})
	})

	Describe("RequireRoles", func() {
		route := func(identity internal.Identity) *chi.Mux {
			r := chi.NewRouter()
			r.With(withIdentity(identity), middleware.RequireRoles(base, role.Admin, role.Manager)).Post("/facilities", ok)
			return r
		}

		It("should admit approvers", func() {
			for _, id := range []int64{role.Admin, role.Manager} {
				rec := httptest.NewRecorder()
				route(internal.Identity{UserID: 1, RoleID: id}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/facilities", nil))
				Expect(rec.Code).To(Equal(http.StatusOK))
			}
		})

		It("should refuse requesters", func() {
			rec := httptest.NewRecorder()
			route(internal.Identity{UserID: 1, RoleID: role.Requester}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/facilities", nil))

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(failMessage(rec)).To(Equal("You are an unauthorized user"))
		})
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("should turn a panic into a 500 envelope", func() {
		base := &transport.BaseHandler{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
		h := middleware.RecoveryMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("kaboom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(failMessage(rec)).To(Equal("Internal server error"))
	})

	It("should include the panic in development", func() {
		base := &transport.BaseHandler{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), ExposeErrors: true}
		h := middleware.RecoveryMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("kaboom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Body.String()).To(ContainSubstring("panic: kaboom"))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	var (
		buf    *bytes.Buffer
		logger *slog.Logger
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		logger = slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	})

	It("should mask passwords and tokens", func() {
		h := middleware.LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			Expect(string(body)).To(ContainSubstring("hunter22"))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"data":{"token":"jwt-value"}}`))
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.co","password":"hunter22"}`))
		req.Header.Set("Authorization", "Bearer secret-token")
		h.ServeHTTP(httptest.NewRecorder(), req)

		logged := buf.String()
		Expect(logged).To(ContainSubstring("incoming request"))
		Expect(logged).To(ContainSubstring("a@b.co"))
		Expect(logged).NotTo(ContainSubstring("hunter22"))
		Expect(logged).NotTo(ContainSubstring("secret-token"))
		Expect(logged).NotTo(ContainSubstring("jwt-value"))
	})

	It("should mask signup tokens but keep address fields", func() {
		h := middleware.LoggingMiddleware(logger)(http.HandlerFunc(ok))

		req := httptest.NewRequest(http.MethodPost, "/api/auth/signup/user", strings.NewReader(
			`{"email":"remy@andela.com","signupToken":"6f1c-andela","profile":{"state":"Lagos","password":"hunter22"}}`))
		h.ServeHTTP(httptest.NewRecorder(), req)

		logged := buf.String()
		Expect(logged).NotTo(ContainSubstring("6f1c-andela"))
		Expect(logged).NotTo(ContainSubstring("hunter22"))
		Expect(logged).To(ContainSubstring("Lagos"))
	})

	It("should mask the oauth callback code, state and cookies", func() {
		h := middleware.LoggingMiddleware(logger)(http.HandlerFunc(ok))

		req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=provider-code&state=nonce-123&scope=email", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "nonce-123"})
		h.ServeHTTP(httptest.NewRecorder(), req)

		logged := buf.String()
		Expect(logged).NotTo(ContainSubstring("provider-code"))
		Expect(logged).NotTo(ContainSubstring("nonce-123"))
		Expect(logged).To(ContainSubstring("scope=email"))
	})

	It("should skip the configured paths", func() {
		h := middleware.LoggingMiddleware(logger, "/metrics")(http.HandlerFunc(ok))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

		Expect(buf.Len()).To(BeZero())
	})
})

var _ = Describe("Metrics", func() {
	It("should count requests by route pattern", func() {
		metrics := middleware.NewMetrics(prometheus.NewRegistry())

		r := chi.NewRouter()
		r.Use(metrics.Middleware)
		r.Get("/api/facilities/{id}", ok)
		r.Method(http.MethodGet, "/metrics", metrics.Handler())

		for _, path := range []string{"/api/facilities/1", "/api/facilities/2"} {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		}

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`http_requests_total{method="GET",path="/api/facilities/{id}",status="200"} 2`))
	})
})

var _ = Describe("RequestID", func() {
	It("should echo a supplied trace id", func() {
		h := middleware.RequestID(http.HandlerFunc(ok))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Trace-ID", "trace-1")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		Expect(rec.Header().Get("X-Trace-ID")).To(Equal("trace-1"))
	})

	It("should generate one when missing", func() {
		rec := httptest.NewRecorder()
		middleware.RequestID(http.HandlerFunc(ok)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Header().Get("X-Trace-ID")).NotTo(BeEmpty())
	})
})

var _ = Describe("CORS", func() {
	It("should answer preflight requests for allowed origins with credentials", func() {
		h := middleware.CORS([]string{"http://localhost:3000"})(http.HandlerFunc(ok))
		req := httptest.NewRequest(http.MethodOptions, "/api/users/requests", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
		Expect(rec.Header().Get("Access-Control-Allow-Credentials")).To(Equal("true"))
	})
})
