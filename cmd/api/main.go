// Package main is the entry point for the flight insights server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/flight-dashboard/internal/aviationstack"
	"github.com/pkordes/flight-dashboard/internal/cache"
	"github.com/pkordes/flight-dashboard/internal/config"
	"github.com/pkordes/flight-dashboard/internal/dashboard"
	"github.com/pkordes/flight-dashboard/internal/handler"
	"github.com/pkordes/flight-dashboard/internal/middleware"
	"github.com/pkordes/flight-dashboard/internal/repo"
	"github.com/pkordes/flight-dashboard/internal/scraper"
	"github.com/pkordes/flight-dashboard/internal/service"
	"github.com/pkordes/flight-dashboard/migrations"
	"github.com/pkordes/flight-dashboard/openapi"
)

const maxBodyBytes = 1 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Database (optional) ----------------------------------------------
	// Without a database there are no snapshots and no fallback when every
	// flight source is down.
	var snapshots repo.SnapshotRepo
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := migrate(ctx, pool); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("database connection established")
		snapshots = repo.NewSnapshotRepo(pool)
	} else {
		slog.Warn("DATABASE_URL not set; snapshots disabled")
	}

	// --- Cache (optional) -------------------------------------------------
	var insightsCache service.InsightsCache
	if cfg.RedisAddr != "" {
		c, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL, logger)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer c.Close()
		slog.Info("redis connection established", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		insightsCache = c
	}

	// --- Services ---------------------------------------------------------
	sources := []service.NamedSource{
		{Name: "aviationstack", Source: aviationstack.NewClient(cfg.AviationStackURL, cfg.APIKey)},
	}
	if cfg.ScrapeURL != "" {
		sources = append(sources, service.NamedSource{Name: "scraper", Source: scraper.New(cfg.ScrapeURL, nil)})
	}
	insights := service.NewInsightsService(sources, snapshots, insightsCache, logger)

	var dashboardOpts []dashboard.Option
	if cfg.DashboardDiscardStale {
		dashboardOpts = append(dashboardOpts, dashboard.WithStaleDiscard())
	}
	server := handler.NewServer(insights, dashboard.NewHTTPFetcher(cfg.DashboardAPIURL, nil),
		handler.WithDashboardOptions(dashboardOpts...),
		handler.WithAllowedOrigins(cfg.CORSOrigins),
		handler.WithOpenAPI(openapi.Document),
		handler.WithLogger(logger),
	)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID, RealIP, Logger, Recoverer, CORS, body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))
	server.Register(r)

	// --- HTTP Server ------------------------------------------------------
	// GET / fetches from /api/data on this server, which may wait on both
	// flight sources, so the write timeout covers their timeouts combined.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "sources", len(sources))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies pending goose migrations through a database/sql view of pool.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	for _, res := range results {
		slog.Info("migration applied", "version", res.Source.Version, "duration", res.Duration)
	}
	return nil
}
