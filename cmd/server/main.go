package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/forgo/mergington/api/internal/config"
	"github.com/forgo/mergington/api/internal/database"
	"github.com/forgo/mergington/api/internal/handler"
	"github.com/forgo/mergington/api/internal/metrics"
	"github.com/forgo/mergington/api/internal/middleware"
	"github.com/forgo/mergington/api/internal/repository"
	"github.com/forgo/mergington/api/internal/service"
)

// activityStore is a repository the server can also close on shutdown
type activityStore interface {
	service.ActivityRepository
	io.Closer
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.Level,
	}))
	slog.SetDefault(logger)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	// Open the activity store
	store, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store",
			slog.String("backend", cfg.Store.Backend),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	slog.Info("store ready", slog.String("backend", cfg.Store.Backend))

	// Seed the initial roster
	seeder := service.NewSeederService(store)
	if _, err := seeder.SeedRoster(ctx, service.SeedRosterRequest{File: cfg.Store.SeedFile}); err != nil {
		slog.Error("failed to seed roster", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize services
	activityService := service.NewActivityService(service.ActivityServiceConfig{
		Repo: store,
	})

	// Initialize handlers
	activityHandler := handler.NewActivityHandler(activityService)

	routerCfg := handler.RouterConfig{
		Activities: activityHandler,
		Store:      store,
		Backend:    cfg.Store.Backend,
	}
	if cfg.Metrics.Enabled {
		routerCfg.Metrics = metrics.Handler()
	}
	mux := handler.NewRouter(routerCfg)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   cfg.RateLimit.RequestsPerMinute,
		Window: time.Minute,
		Burst:  cfg.RateLimit.Burst,
	})
	defer rateLimiter.Stop()

	// Initialize idempotency store
	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL: 24 * time.Hour,
	})
	defer idempotencyStore.Stop()

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Compress("/metrics"),
		middleware.Idempotency(idempotencyStore),
		middleware.Metrics,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		slog.Error("server error", slog.String("error", err.Error()))
		return
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}

// openStore connects the configured backend and prepares it for use
func openStore(ctx context.Context, cfg *config.Config) (activityStore, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return repository.NewMemoryActivityRepository(), nil

	case config.BackendSurreal:
		db := database.NewSurrealDB(database.Config{
			Host:      cfg.Database.Host,
			Port:      cfg.Database.Port,
			User:      cfg.Database.User,
			Password:  cfg.Database.Password,
			Namespace: cfg.Database.Namespace,
			Database:  cfg.Database.Database,
		})
		if err := db.Connect(ctx); err != nil {
			return nil, err
		}
		repo := repository.NewSurrealActivityRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			_ = repo.Close()
			return nil, err
		}
		return repo, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		repo := repository.NewRedisActivityRepository(client, cfg.Redis.Prefix)
		if err := repo.Ping(ctx); err != nil {
			_ = repo.Close()
			return nil, err
		}
		return repo, nil

	case config.BackendPostgres:
		db, err := repository.OpenPostgres(cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		repo := repository.NewPostgresActivityRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			_ = repo.Close()
			return nil, err
		}
		return repo, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
