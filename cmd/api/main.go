// Package main is the entry point for the fishing log API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/tkarhu/fishing-log/internal/blob"
	"github.com/tkarhu/fishing-log/internal/config"
	"github.com/tkarhu/fishing-log/internal/handler"
	"github.com/tkarhu/fishing-log/internal/middleware"
	"github.com/tkarhu/fishing-log/internal/repo"
	"github.com/tkarhu/fishing-log/internal/service"
	"github.com/tkarhu/fishing-log/migrations"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	ctx := context.Background()

	if cfg.MigrateOnBoot {
		if err := migrate(ctx, cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info().Msg("migrations applied")
	}

	// pgxpool manages a pool of Postgres connections. New() does not open
	// connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	log.Info().Msg("database connection established")

	store, err := blob.NewS3Store(ctx, cfg.AWSRegion, cfg.PhotoBucket)
	if err != nil {
		return fmt.Errorf("create blob store: %w", err)
	}

	trips := repo.NewTripRepo(pool)
	catches := repo.NewCatchRepo(pool)
	equipment := repo.NewEquipmentRepo(pool)
	weather := repo.NewWeatherRepo(pool)

	server := handler.NewServer(
		service.NewTripService(trips, catches, weather, equipment),
		service.NewCatchService(catches, trips, equipment),
		service.NewEquipmentService(trips, equipment),
		service.NewWeatherService(weather, trips),
		service.NewPhotoService(catches, store, cfg.SignedURLTTL),
		service.NewExportService(trips, catches),
	)

	// Middleware is applied in order: RequestID, RealIP, request logger,
	// Recoverer, CORS, body cap. Recoverer turns panics into HTTP 500 instead
	// of crashing the process.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewRequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxUploadBytes))
	server.Routes(r)

	// Explicit timeouts prevent slowloris and resource exhaustion.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for an OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

// migrate applies pending goose migrations. goose needs database/sql, not a
// pgx pool, so a short-lived stdlib connection is opened just for this.
func migrate(ctx context.Context, databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}
