package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/app"
	"github.com/barefootnomad/backend/pkg/logger"
	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	initLogger(cfg)
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database, lg)
	if err != nil {
		lg.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	application, err := app.New(cfg, db, lg, app.Options{})
	if err != nil {
		lg.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	lg.Info("Starting HTTP server", "address", addr, "environment", cfg.Environment)

	server := &http.Server{
		Addr:              addr,
		Handler:           application.Router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	if err := application.Close(); err != nil {
		lg.Error("Event forwarder close error", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			lg.Error("Database close error", "error", err)
		}
	}

	lg.Info("Server stopped")
}

func initLogger(cfg *internal.Config) {
	format := cfg.Observability.Logging.Format
	if format == "" {
		format = "text"
		if cfg.IsProduction() {
			format = "json"
		}
	}
	logger.InitWithOptions(logger.Options{
		Level:  cfg.Observability.Logging.Level,
		Format: format,
	})
}

// initDB opens the gorm connection, retrying with exponential backoff until
// ConnectTimeout elapses.
func initDB(cfg internal.DatabaseConfig, lg *slog.Logger) (*gorm.DB, error) {
	var db *gorm.DB

	connect := func() error {
		conn, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
			TranslateError: true,
			Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		})
		if err != nil {
			return err
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return backoff.Permanent(err)
		}
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

		if err := sqlDB.Ping(); err != nil {
			_ = sqlDB.Close()
			return err
		}
		db = conn
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = cfg.ConnectTimeout

	notify := func(err error, next time.Duration) {
		lg.Warn("database not ready, retrying", "error", err, "retry_in", next)
	}
	if err := backoff.RetryNotify(connect, policy, notify); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
