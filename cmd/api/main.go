// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Librarium HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the flat-file datastore.
//  4. Connect to Redis (optional metadata cache).
//  5. Wire HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
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

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/librarium/internal/api"
	"github.com/taibuivan/librarium/internal/catalog"
	"github.com/taibuivan/librarium/internal/circulation"
	"github.com/taibuivan/librarium/internal/openlibrary"
	"github.com/taibuivan/librarium/internal/platform/config"
	"github.com/taibuivan/librarium/internal/platform/constants"
	"github.com/taibuivan/librarium/internal/platform/jsonfile"
	redisstore "github.com/taibuivan/librarium/internal/platform/redis"
	"github.com/taibuivan/librarium/internal/platform/sec"
	"github.com/taibuivan/librarium/internal/users"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "librarium"))
	slog.SetDefault(log)

	log.Info("[Librarium] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "librarium"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("data_dir", cfg.DataDir),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Flat-File Datastore ────────────────────────────────────────────
	db, err := jsonfile.Open(cfg.DataDir)
	must(log, err, "open datastore")

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
	} else {
		log.Info("redis disabled, metadata lookups run uncached")
	}

	// ── 5. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.TokenSecret, constants.AuthIssuer)
	must(log, err, "initialize token service")

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	healthDeps := api.HealthDependencies{
		CheckDatastore: db.Ping,
	}
	if rdb != nil {
		healthDeps.CheckCache = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
	}
	liveness, readiness := api.NewHealthHandlers(healthDeps, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	bookRepository, err := catalog.NewRepository(db)
	must(log, err, "open book collection")
	userRepository, err := users.NewRepository(db)
	must(log, err, "open user collection")
	issueRepository, err := circulation.NewRepository(db)
	must(log, err, "open issue collection")

	resolver := openlibrary.NewClient(cfg.OpenLibraryBaseURL, cfg.OpenLibraryTimeout, rdb, log)

	catalogService := catalog.NewService(bookRepository, resolver, db, log)
	usersService := users.NewService(userRepository, jwtSvc, db, log)
	circulationService := circulation.NewService(issueRepository, bookRepository, userRepository, db, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Users:       users.NewHandler(usersService),
		Catalog:     catalog.NewHandler(catalogService),
		Circulation: circulation.NewHandler(circulationService),
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
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
