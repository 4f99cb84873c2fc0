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

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	moviehandler "cinedex/internal/movie/handler"
	moviemetrics "cinedex/internal/movie/metrics"
	movieservice "cinedex/internal/movie/service"
	moviestore "cinedex/internal/movie/store"
	"cinedex/internal/platform/badgerdb"
	"cinedex/internal/platform/config"
	"cinedex/internal/platform/health"
	"cinedex/internal/platform/httpserver"
	"cinedex/internal/platform/logger"
	"cinedex/internal/platform/metrics"
	"cinedex/internal/platform/middleware"
	"cinedex/internal/platform/postgres"
	redisclient "cinedex/internal/platform/redis"
)

const healthTimeout = 2 * time.Second

// movieStore is what the server needs from any backend.
type movieStore interface {
	movieservice.Store
	health.Pinger
}

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn("failed to close store", "store", cfg.Store, "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := movieservice.New(store,
		movieservice.WithLogger(log),
		movieservice.WithMetrics(moviemetrics.New(reg)),
		movieservice.WithStrictValidation(cfg.StrictValidation),
	)
	router := newRouter(cfg, log, svc, store, reg)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting cinedex", "addr", cfg.Addr, "store", cfg.Store, "strict_validation", cfg.StrictValidation)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func newRouter(cfg config.Server, log *slog.Logger, svc moviehandler.Service, store health.Pinger, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.With(middleware.RequestID).Get("/healthz", health.Handler(store, healthTimeout, log))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	moviehandler.New(svc, log, metrics.New(reg)).Register(r)
	return r
}

// openStore builds the configured backend and returns a func releasing its
// handle.
func openStore(ctx context.Context, cfg config.Server, log *slog.Logger) (movieStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.PostgresConfig)
		if err != nil {
			return nil, nil, err
		}
		store := moviestore.NewPostgres(db)
		if cfg.PostgresConfig.Bootstrap {
			if err := store.Bootstrap(ctx); err != nil {
				_ = db.Close()
				return nil, nil, fmt.Errorf("bootstrap movies schema: %w", err)
			}
			log.Info("applied movies schema")
		}
		return store, db.Close, nil

	case config.StoreBadger:
		db, err := badgerdb.Open(cfg.BadgerConfig.Path, log)
		if err != nil {
			return nil, nil, err
		}
		store, err := moviestore.NewBadger(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, closeAll(store, db), nil

	case config.StoreRedis:
		client, err := redisclient.New(ctx, cfg.RedisConfig)
		if err != nil {
			return nil, nil, err
		}
		return moviestore.NewRedis(client), client.Close, nil

	default:
		return moviestore.NewInMemory(), noop, nil
	}
}

func closeAll(closers ...io.Closer) func() error {
	return func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c.Close())
		}
		return errors.Join(errs...)
	}
}
