// Package main is the entry point for the query canvas API server. It
// wires the translator service to a SQLite-backed history store and
// serves the REST API over chi.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	_ "github.com/mattn/go-sqlite3"

	"querycanvas/internal/api"
	"querycanvas/internal/config"
	internaldb "querycanvas/internal/db"
	"querycanvas/internal/db/repository"
	"querycanvas/internal/middleware"
	"querycanvas/internal/service"
	"querycanvas/internal/sqlgen"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file (if present); real environment variables win.
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// writeDB: single-connection pool for serialized writes (WAL + txlock=immediate).
	// readDB:  4-connection pool for concurrent reads.
	writeDB, readDB, err := internaldb.OpenSQLitePair(cfg.HistoryDBPath, 4)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer writeDB.Close()
	defer readDB.Close()

	if err := internaldb.RunMigrations(ctx, writeDB); err != nil {
		return fmt.Errorf("migrate history store: %w", err)
	}

	defaultDialect, err := sqlgen.ParseDialect(cfg.DefaultDialect)
	if err != nil {
		return fmt.Errorf("config: DEFAULT_DIALECT: %w", err)
	}

	repo := repository.NewSavedQueryRepo(writeDB, readDB)
	translator := service.NewTranslatorService(repo, defaultDialect, logger)
	handler := api.NewHandler(translator, logger)

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	// Probes skip the /v1 auth stack.
	r.Get("/healthz", handler.Healthz)

	r.Route("/v1", func(r chi.Router) {
		if cfg.AuthEnabled() {
			r.Use(middleware.Auth([]byte(cfg.JWTSecret)))
		}
		api.MountRoutes(r, handler)
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("query canvas API listening",
		"addr", cfg.ListenAddr,
		"default_dialect", string(defaultDialect),
		"auth_enabled", cfg.AuthEnabled(),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// newLogger builds the process logger: JSON in production, text elsewhere.
func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
