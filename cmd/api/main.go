package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/cillii/catalog-backend/api/routes"
	"github.com/cillii/catalog-backend/internal/bulk"
	"github.com/cillii/catalog-backend/internal/cart"
	"github.com/cillii/catalog-backend/internal/classes"
	"github.com/cillii/catalog-backend/internal/orders"
	"github.com/cillii/catalog-backend/internal/settings"
	"github.com/cillii/catalog-backend/internal/syncer"
	"github.com/cillii/catalog-backend/internal/uploads"
	"github.com/cillii/catalog-backend/pkg/config"
	"github.com/cillii/catalog-backend/pkg/db"
	"github.com/cillii/catalog-backend/pkg/logger"
	"github.com/cillii/catalog-backend/pkg/metrics"
	"github.com/cillii/catalog-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := dbClient.AutoMigrate(); err != nil {
		logg.Error(context.Background(), "failed to migrate database", err)
		os.Exit(1)
	}

	uploadStore, err := uploads.NewStore(cfg.Uploads)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare uploads directory", err)
		os.Exit(1)
	}

	var cartMirror cart.Mirror = cart.NoopMirror{}
	var redisPinger redis.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		cartMirror = cart.NewRedisMirror(redisClient, cfg.Cart.TTL)
		redisPinger = redisClient
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	syncMetrics := metrics.NewSyncJobMetrics(registry)

	classRepo := classes.NewRepository(dbClient.DB())
	settingsRepo := settings.NewRepository(dbClient.DB())
	settingsSvc := settings.NewService(settingsRepo)

	classSvc := classes.NewService(classRepo, uploadStore, logg)
	bulkSvc := bulk.NewService(classRepo, logg)
	fetcher := bulk.NewSheetFetcher(cfg.Sheets)

	cartStore := cart.NewMemoryStore(cfg.Cart.TTL)
	cartSvc := cart.NewService(cartStore, cartMirror, classRepo, logg)

	sequencer := orders.NewSequencer(settingsRepo, cfg.Orders.StartID)
	orderSvc := orders.NewService(sequencer, orders.NewHistory(cfg.Orders.HistoryCap), cartSvc, logg)

	syncSvc, err := syncer.NewService(syncer.ServiceParams{
		Logger:     logg,
		Settings:   settingsSvc,
		Fetcher:    fetcher,
		Reconciler: bulkSvc,
		Metrics:    syncMetrics,
		Interval:   cfg.AutoSync.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auto-sync service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := syncSvc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "auto-sync stopped unexpectedly", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisPinger,
			Registry: registry,
			Classes:  classSvc,
			Bulk:     bulkSvc,
			Fetcher:  fetcher,
			Cart:     cartSvc,
			Orders:   orderSvc,
			Settings: settingsSvc,
			Uploads:  uploadStore,
		}),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "server shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(startCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(startCtx, "api server shut down gracefully")
}
