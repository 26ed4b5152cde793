package rest

import (
	"log/slog"
	"net/http"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/auth"
	"github.com/barefootnomad/backend/internal/booking"
	"github.com/barefootnomad/backend/internal/facility"
	"github.com/barefootnomad/backend/internal/request"
	"github.com/barefootnomad/backend/internal/role"
	"github.com/barefootnomad/backend/internal/transport"
	"github.com/barefootnomad/backend/internal/transport/middleware"
	"github.com/barefootnomad/backend/internal/transport/swagger"
	"github.com/barefootnomad/backend/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups the controllers mounted under /api.
type Handlers struct {
	Auth     *auth.Handler
	User     *user.Handler
	Role     *role.Handler
	Request  *request.Handler
	Facility *facility.Handler
	Booking  *booking.Handler
	Health   *HealthHandler
}

type Options struct {
	Base           *transport.BaseHandler
	Logger         *slog.Logger
	AllowedOrigins []string
	// Metrics is nil when metrics are disabled.
	Metrics     *middleware.Metrics
	MetricsPath string
	OpenAPIFile string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options) {
	base := opts.Base
	if base == nil {
		base = transport.NewBaseHandler(opts.Logger, false)
	}
	lg := opts.Logger
	if lg == nil {
		lg = base.Logger
	}
	if opts.OpenAPIFile == "" {
		opts.OpenAPIFile = "./api/openapi.yml"
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	// Apply global middleware
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(base))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware(lg, opts.MetricsPath, "/api/health", "/api/ping"))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		base.HandleServiceError(w, internal.ErrRouteNotFound)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		base.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, opts.OpenAPIFile)
	})
	router.Handle("/swagger/*", swagger.Handler())

	if opts.Metrics != nil {
		router.Handle(opts.MetricsPath, opts.Metrics.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Role != nil {
			r.Get("/roles", h.Role.ListRoles)
			r.Get("/roles/{id}", h.Role.GetRole)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/signup/company", h.Auth.SignupCompany)
			ar.Post("/signup/user", h.Auth.SignupUser)
			ar.Post("/signup", h.Auth.Signup)
			ar.Post("/signup/supplier", h.Auth.SignupSupplier)
			ar.Post("/login", h.Auth.Login)
			ar.Post("/logout", h.Auth.Logout)
			ar.Get("/{provider}", h.Auth.OAuthRedirect)
			ar.Get("/{provider}/callback", h.Auth.OAuthCallback)
		})

		if h.User != nil {
			r.Get("/users/profile/{id}", h.User.GetProfile)
			r.With(h.Auth.Authenticate, middleware.RequireSelf(base, "id")).
				Patch("/users/profile/{id}/update", h.User.UpdateProfile)
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.Authenticate)

			if h.Request != nil {
				pr.Post("/users/requests", h.Request.Create)
				pr.Get("/users/requests", h.Request.ListAll)
				pr.Get("/users/requests/user/{status}", h.Request.ListByStatus)
				pr.Get("/users/requests/detail/{id}", h.Request.Detail)
				pr.With(middleware.RequireSelf(base, "id")).
					Get("/users/requests/{id}", h.Request.ListForUser)
				pr.Patch("/users/requests/{id}", h.Request.UpdateStatus)
			}

			if h.Facility != nil {
				// Suppliers have no company, so what they list is shared.
				managers := middleware.RequireRoles(base, role.Admin, role.Manager, role.Supplier)

				pr.Get("/facilities", h.Facility.List)
				pr.Get("/facilities/{id}", h.Facility.Get)
				pr.Get("/facilities/{id}/rooms", h.Facility.ListRooms)
				pr.With(managers).Post("/facilities", h.Facility.Create)
				pr.With(managers).Patch("/facilities/{id}", h.Facility.Update)
				pr.With(managers).Post("/facilities/{id}/rooms", h.Facility.CreateRoom)
				pr.With(managers).Patch("/rooms/{id}", h.Facility.UpdateRoom)
			}

			if h.Booking != nil {
				pr.Post("/bookings", h.Booking.Create)
				pr.Get("/bookings", h.Booking.List)
			}
		})
	})
}
