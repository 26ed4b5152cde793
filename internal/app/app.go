// Package app assembles repositories, services, handlers and the router into
// one HTTP application.
package app

import (
	"errors"
	"log/slog"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/auth"
	authPostgres "github.com/barefootnomad/backend/internal/auth/postgres"
	"github.com/barefootnomad/backend/internal/booking"
	bookingPostgres "github.com/barefootnomad/backend/internal/booking/postgres"
	"github.com/barefootnomad/backend/internal/company"
	companyPostgres "github.com/barefootnomad/backend/internal/company/postgres"
	"github.com/barefootnomad/backend/internal/core/events"
	"github.com/barefootnomad/backend/internal/facility"
	facilityPostgres "github.com/barefootnomad/backend/internal/facility/postgres"
	"github.com/barefootnomad/backend/internal/request"
	requestPostgres "github.com/barefootnomad/backend/internal/request/postgres"
	"github.com/barefootnomad/backend/internal/role"
	rolePostgres "github.com/barefootnomad/backend/internal/role/postgres"
	"github.com/barefootnomad/backend/internal/transport"
	"github.com/barefootnomad/backend/internal/transport/middleware"
	"github.com/barefootnomad/backend/internal/transport/rest"
	"github.com/barefootnomad/backend/internal/user"
	userPostgres "github.com/barefootnomad/backend/internal/user/postgres"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// Options overrides collaborators that are built from config by default.
type Options struct {
	// KafkaWriter replaces the writer built from events.kafka when Kafka is enabled.
	KafkaWriter events.KafkaWriter
	// Providers replaces the OAuth providers built from config.
	Providers   map[string]auth.Provider
	Registry    *prometheus.Registry
	OpenAPIFile string
}

type App struct {
	Config    *internal.Config
	DB        *gorm.DB
	Router    *chi.Mux
	Bus       *events.EventBus
	Forwarder *events.KafkaForwarder
	Logger    *slog.Logger
}

func New(cfg *internal.Config, db *gorm.DB, logger *slog.Logger, opts Options) (*App, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("app: config and db are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		Config: cfg,
		DB:     db,
		Router: chi.NewRouter(),
		Bus:    events.NewEventBus(logger),
		Logger: logger,
	}

	a.Bus.SubscribeAll(events.RequestEventTypes, events.AuditLogger(logger.With("component", "audit")))
	if cfg.Events.Kafka.Enabled {
		writer := opts.KafkaWriter
		if writer == nil {
			writer = events.NewKafkaWriter(cfg.Events.Kafka.Brokers, cfg.Events.Kafka.Topic)
		}
		a.Forwarder = events.NewKafkaForwarder(writer, 0, logger)
		a.Bus.SubscribeAll(events.RequestEventTypes, a.Forwarder.Handle)
	}

	// Repositories
	userRepo := userPostgres.NewUserRepository(db)
	companyRepo := companyPostgres.NewCompanyRepository(db)
	roleRepo := rolePostgres.NewRoleRepository(db)
	requestRepo := requestPostgres.NewRequestRepository(db)
	facilityRepo := facilityPostgres.NewFacilityRepository(db)
	bookingRepo := bookingPostgres.NewBookingRepository(db)
	authRepo := authPostgres.NewRepository(db)

	// Services
	userService := user.NewService(userRepo, logger)
	companyService := company.NewService(companyRepo, logger)
	roleService := role.NewService(roleRepo, logger)
	requestService := request.NewService(requestRepo, userService, companyService, a.Bus, logger)
	facilityService := facility.NewService(facilityRepo, userService, logger)
	bookingService := booking.NewService(bookingRepo, requestService, facilityService, logger)
	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.TokenDuration)
	authService := auth.NewService(authRepo, companyService, tokens, cfg.Security.BCryptCost, logger)

	providers := opts.Providers
	if providers == nil {
		providers = auth.NewProviders(cfg.OAuth)
	}

	// Handlers
	base := transport.NewBaseHandler(logger, !cfg.IsProduction())
	handlers := rest.Handlers{
		Auth: auth.NewHandler(base, authService, providers, auth.CookieConfig{
			Name:   cfg.Security.CookieName,
			Secure: cfg.Security.CookieSecure,
			MaxAge: cfg.Security.TokenDuration,
		}),
		User:     user.NewHandler(base, userService),
		Role:     role.NewHandler(base, roleService),
		Request:  request.NewHandler(base, requestService),
		Facility: facility.NewHandler(base, facilityService),
		Booking:  booking.NewHandler(base, bookingService),
	}
	if sqlDB, err := db.DB(); err == nil {
		handlers.Health = rest.NewHealthHandler(base, sqlDB)
	} else {
		handlers.Health = rest.NewHealthHandler(base, nil)
	}

	routeOpts := rest.Options{
		Base:           base,
		Logger:         logger,
		AllowedOrigins: cfg.Server.Origins(),
		MetricsPath:    cfg.Observability.Metrics.Path,
		OpenAPIFile:    opts.OpenAPIFile,
	}
	if cfg.Observability.Metrics.Enabled {
		registry := opts.Registry
		if registry == nil {
			registry = prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}
		routeOpts.Metrics = middleware.NewMetrics(registry)
	}

	rest.RegisterAllRoutes(a.Router, handlers, routeOpts)
	return a, nil
}

// Close waits for in-flight event handlers and flushes the Kafka forwarder.
func (a *App) Close() error {
	a.Bus.Wait()
	if a.Forwarder != nil {
		return a.Forwarder.Close()
	}
	return nil
}
