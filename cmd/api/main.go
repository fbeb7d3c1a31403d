// Package main is the entry point for the Verbenas API server.
package main

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

	"github.com/redis/go-redis/v9"

	"github.com/zapponejosh/verbenas-api/internal/api"
	"github.com/zapponejosh/verbenas-api/internal/config"
	"github.com/zapponejosh/verbenas-api/internal/continuity"
	"github.com/zapponejosh/verbenas-api/internal/database"
	"github.com/zapponejosh/verbenas-api/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	log.Info("starting verbenas API",
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	applied, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations complete", slog.Int("applied", applied))

	cache, closeCache, err := newCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	handlers := api.NewHandlers(db, continuity.NewService(cache, log), cfg, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("verbenas API ready", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// newCache picks the continuity report cache: Redis when REDIS_URL is set,
// otherwise an in-process cache.
func newCache(ctx context.Context, cfg *config.Config, log *slog.Logger) (continuity.Cache, func(), error) {
	if cfg.RedisURL == "" {
		log.Info("using in-memory continuity cache", slog.Duration("ttl", cfg.CacheTTL))
		return continuity.NewMemoryCache(cfg.CacheTTL), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		// Reports are still served when Redis is down; Service logs each miss.
		log.Warn("redis unreachable at startup", slog.String("addr", opts.Addr), slog.Any("error", err))
	} else {
		log.Info("using redis continuity cache", slog.String("addr", opts.Addr), slog.Duration("ttl", cfg.CacheTTL))
	}

	return continuity.NewRedisCache(client, cfg.CacheTTL), func() { client.Close() }, nil
}
