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

	"github.com/geocoder89/vacationhub/internal/accounts"
	"github.com/geocoder89/vacationhub/internal/auth"
	"github.com/geocoder89/vacationhub/internal/cache"
	"github.com/geocoder89/vacationhub/internal/config"
	"github.com/geocoder89/vacationhub/internal/db"
	httpx "github.com/geocoder89/vacationhub/internal/http"
	"github.com/geocoder89/vacationhub/internal/http/handlers"
	"github.com/geocoder89/vacationhub/internal/observability"
	"github.com/geocoder89/vacationhub/internal/repo/postgres"
	"github.com/geocoder89/vacationhub/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := run(); err != nil {
		slog.Default().Error("server failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if cfg.UsesInsecureSecret() {
		log.Warn("JWT_SECRET not set, using the insecure development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName: "vacationhub-api",
		Env:         cfg.Env,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := config.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(sctx)
	}()

	pool, err := db.NewPool(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return err
	}
	if err := db.SeedRoles(ctx, pool); err != nil {
		return err
	}
	if err := db.EnsureAdminUser(ctx, pool, cfg); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	checks := map[string]handlers.Check{"postgres": pool.Ping}

	var store cache.Store
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL(),
		})
		defer rc.Close()

		store = rc
		checks["redis"] = rc.Ping
	} else {
		store = cache.NewMemory(cfg.CacheTTL())
	}
	store = cache.WithMetrics(store, prom)

	images, err := storage.NewImages(cfg.ImagesDir, cfg.MaxUploadBytes)
	if err != nil {
		return err
	}
	images.Instrument(prom)

	usersRepo := postgres.NewUsersRepo(pool, prom)

	router := httpx.NewRouter(httpx.Deps{
		Env:            cfg.Env,
		AllowedOrigins: cfg.AllowedOrigins,
		ImagesDir:      images.Dir(),
		MaxUploadBytes: cfg.MaxUploadBytes,
		Prom:           prom,
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Checks:         checks,
		Tokens:         auth.NewManager(cfg.JWTSecret),
		Accounts:       accounts.NewService(usersRepo),
		Users:          usersRepo,
		Roles:          postgres.NewRolesRepo(pool, prom),
		Countries:      postgres.NewCountriesRepo(pool, prom),
		Vacations:      postgres.NewVacationsRepo(pool, prom),
		Likes:          postgres.NewLikesRepo(pool, prom),
		Images:         images,
		Cache:          store,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("server shutting down")

	sctx, cancel := config.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}
