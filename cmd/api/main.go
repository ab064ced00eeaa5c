// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Songatlas HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Run database migrations (idempotent, optional).
//  5. Select the cache backend (Redis, in-process or none).
//  6. Wire the catalogue domain.
//  7. Load the admin token verifier (optional).
//  8. Start the mutation event consumer (optional).
//  9. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/songatlas/internal/api"
	"github.com/taibuivan/songatlas/internal/core/catalog"
	"github.com/taibuivan/songatlas/internal/platform/broker"
	"github.com/taibuivan/songatlas/internal/platform/cache"
	"github.com/taibuivan/songatlas/internal/platform/config"
	"github.com/taibuivan/songatlas/internal/platform/constants"
	"github.com/taibuivan/songatlas/internal/platform/middleware"
	"github.com/taibuivan/songatlas/internal/platform/migration"
	pgstore "github.com/taibuivan/songatlas/internal/platform/postgres"
	redisstore "github.com/taibuivan/songatlas/internal/platform/redis"
	"github.com/taibuivan/songatlas/internal/platform/sec"
)

// consumerRetryDelay spaces reconnect attempts after the broker drops us.
const consumerRetryDelay = 5 * time.Second

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Songatlas] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("cache_backend", cfg.CacheBackend),
		slog.Duration("query_timeout", cfg.QueryTimeout),
	)

	// Process context: cancelled on SIGTERM/SIGINT, ends background workers.
	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(appCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, cfg.QueryTimeout, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	if cfg.RunMigrations {
		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")
	}

	// ── 5. Cache Backend ──────────────────────────────────────────────────
	var store cache.Store
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
		store = cache.NewRedisStore(rdb)

	case config.CacheBackendMemory:
		store = cache.NewMemoryStore(cfg.CacheMemoryCapacity, cfg.CacheTTL)

	case config.CacheBackendNone:
		log.Warn("response_cache_disabled")
	}

	coordinator := cache.NewCoordinator(store, cfg.CachePrefix, cfg.CacheTTL)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	repository := catalog.NewPostgresRepository(pool)
	invalidator := catalog.NewInvalidator(coordinator, log)
	catalogService := catalog.NewService(repository, coordinator, cfg.QueryTimeout)
	guard := catalog.NewGuard(repository, invalidator, cfg.GuardTitleLimit, cfg.QueryTimeout)
	catalogHandler := catalog.NewHandler(catalogService, guard, invalidator)

	// ── 7. Admin Token Verifier ───────────────────────────────────────────
	// Kept as an interface value so "no verifier" is a true nil.
	var verifier middleware.TokenVerifier
	if cfg.AdminEnabled() {
		tokenVerifier, err := sec.NewTokenVerifier(cfg.JWTPubKeyPath, constants.AuthIssuer)
		must(log, err, "load jwt public key")
		verifier = tokenVerifier
	} else {
		log.Warn("admin_routes_disabled", slog.String("reason", "JWT_PUBLIC_KEY_PATH not set"))
	}

	// ── 8. Mutation Event Consumer ────────────────────────────────────────
	consumerDone := make(chan struct{})
	if cfg.ConsumerEnabled() {
		go func() {
			defer close(consumerDone)
			runConsumer(appCtx, cfg, invalidator.HandleMessage, log)
		}()
	} else {
		close(consumerDone)
	}

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: coordinator.Ping,
	}, log)

	server := api.NewServer(appCtx, cfg, log, verifier, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Catalog:   catalogHandler,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case <-appCtx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
		stop()
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
	}

	<-consumerDone
	log.Info("server stopped cleanly")
}

// runConsumer feeds queued mutation events to handler until ctx ends,
// reconnecting whenever the broker drops the connection.
func runConsumer(ctx context.Context, cfg *config.Config, handler broker.Handler, log *slog.Logger) {
	for {
		client, err := broker.Dial(cfg.AMQPURL, cfg.AMQPQueue, log)
		if err == nil {
			err = client.Consume(ctx, constants.AppName, handler)
			client.Close()
		}

		if ctx.Err() != nil {
			return
		}
		log.Error("mutation_consumer_interrupted",
			slog.Any("error", err),
			slog.Duration("retry_in", consumerRetryDelay),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(consumerRetryDelay):
		}
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
