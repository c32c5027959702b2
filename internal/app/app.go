package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexa091904/semi-project/internal/auth"
	"github.com/alexa091904/semi-project/internal/config"
	"github.com/alexa091904/semi-project/internal/db"
	"github.com/alexa091904/semi-project/internal/events"
	"github.com/alexa091904/semi-project/internal/logger"
	"github.com/alexa091904/semi-project/internal/telemetry"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

type App struct {
	config    *config.Config
	router    chi.Router
	server    *http.Server
	logger    *slog.Logger
	db        *bun.DB
	publisher events.Publisher
	limiter   auth.Limiter
	telemetry *telemetry.Telemetry
}

func New(ctx context.Context) (*App, error) {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses the same handler
	slog.SetDefault(slogLogger)

	slogLogger.InfoContext(ctx, "initializing application", "git_commit", GitCommit, "build_time", BuildTime)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slogLogger.InfoContext(ctx, "config loaded", "env", cfg.Env)

	tel, err := telemetry.Init(ctx, cfg.Telemetry.OTLPEndpoint, ServiceName, Version, slogLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.RunMigrations(ctx, database, Models()...); err != nil {
		db.Close(database)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := tel.Metrics.Database.RegisterDB(database.DB, otel.Meter(ServiceName)); err != nil {
		slogLogger.WarnContext(ctx, "failed to register connection pool metrics", "error", err)
	}

	publisher, err := events.New(cfg.Events, slogLogger, tel.Metrics)
	if err != nil {
		slogLogger.WarnContext(ctx, "failed to initialize event publisher, events disabled", "error", err)
		publisher = events.Noop{}
	}

	var limiter auth.Limiter = auth.NoopLimiter{}
	if cfg.Redis.URL != "" {
		redisLimiter, err := auth.NewRedisLimiter(ctx, cfg.Redis.URL)
		if err != nil {
			slogLogger.WarnContext(ctx, "failed to connect to redis, login guard disabled", "error", err)
		} else {
			limiter = redisLimiter
			slogLogger.InfoContext(ctx, "login guard initialized")
		}
	}

	router, authService := NewRouter(Dependencies{
		DB:           database,
		Publisher:    publisher,
		Limiter:      limiter,
		Metrics:      tel.Metrics,
		Logger:       slogLogger,
		JWTSecret:    cfg.Auth.JWTSecret,
		SessionIdle:  time.Duration(cfg.Auth.SessionIdleMinutes) * time.Minute,
		CookieSecure: cfg.Auth.CookieSecure,
		CORSOrigins:  cfg.Server.CORSOrigins,
	})

	if cfg.Auth.AdminUsername != "" {
		created, err := authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to seed admin: %w", err)
		}
		if created {
			slogLogger.InfoContext(ctx, "admin account created", "username", cfg.Auth.AdminUsername)
		}
	}

	slogLogger.InfoContext(ctx, "application initialized successfully")

	return &App{
		config:    cfg,
		router:    router,
		logger:    slogLogger,
		db:        database,
		publisher: publisher,
		limiter:   limiter,
		telemetry: tel,
	}, nil
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.InfoContext(ctx, "shutting down server")

	var serverErr error
	if a.server != nil {
		serverErr = a.server.Shutdown(ctx)
	}

	if err := a.publisher.Close(); err != nil {
		a.logger.WarnContext(ctx, "failed to close event publisher", "error", err)
	}
	if closer, ok := a.limiter.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.WarnContext(ctx, "failed to close redis client", "error", err)
		}
	}
	if err := a.telemetry.Shutdown(ctx, a.logger); err != nil {
		a.logger.WarnContext(ctx, "failed to shutdown telemetry", "error", err)
	}
	db.Close(a.db)

	return serverErr
}
