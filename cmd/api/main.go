package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tacoloja/storefront-backend/api/controllers"
	"github.com/tacoloja/storefront-backend/api/routes"
	cartsvc "github.com/tacoloja/storefront-backend/internal/cart"
	"github.com/tacoloja/storefront-backend/internal/coupons"
	"github.com/tacoloja/storefront-backend/internal/finance"
	"github.com/tacoloja/storefront-backend/internal/images"
	productsvc "github.com/tacoloja/storefront-backend/internal/products"
	"github.com/tacoloja/storefront-backend/internal/settings"
	syncengine "github.com/tacoloja/storefront-backend/internal/sync"
	"github.com/tacoloja/storefront-backend/pkg/cache"
	"github.com/tacoloja/storefront-backend/pkg/config"
	"github.com/tacoloja/storefront-backend/pkg/env"
	"github.com/tacoloja/storefront-backend/pkg/logger"
	"github.com/tacoloja/storefront-backend/pkg/metrics"
	"github.com/tacoloja/storefront-backend/pkg/remote"
	"github.com/tacoloja/storefront-backend/pkg/remote/rest"
	"github.com/tacoloja/storefront-backend/pkg/remote/sqlstore"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	met := metrics.NewSyncMetrics(prometheus.DefaultRegisterer)

	restClient, err := rest.NewClient(ctx, cfg.Remote, cfg.Storage, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap remote client", err)
		os.Exit(1)
	}

	var recordStore remote.Store = restClient
	var remotePinger controllers.Pinger = restClient
	if cfg.Remote.Backend == config.RemoteBackendSQL {
		sqlStore, err := sqlstore.Open(ctx, cfg.DB, cfg.FeatureFlags, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap sql record store", err)
			os.Exit(1)
		}
		defer func() {
			if err := sqlStore.Close(); err != nil {
				logg.Error(context.Background(), "error closing sql record store", err)
			}
		}()
		recordStore = sqlStore
		remotePinger = sqlStore
	}

	redisBackend, err := cache.NewRedisBackend(ctx, cfg.Redis, cfg.Cache.ChangeChannel, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis cache backend", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisBackend.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	cacheStore, err := cache.NewStore(redisBackend, logg, met)
	if err != nil {
		logg.Error(ctx, "failed to create cache store", err)
		os.Exit(1)
	}
	go func() {
		if err := redisBackend.ListenChanges(ctx, cacheStore, logg); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "cache change listener stopped", err)
		}
	}()

	writer := cache.NewDebouncedWriter(cacheStore, cfg.Cache.DebounceInterval)
	defer writer.Flush()

	uploader, err := images.NewUploader(restClient, cfg.Storage, logg, met)
	if err != nil {
		logg.Error(ctx, "failed to create image uploader", err)
		os.Exit(1)
	}
	productService, err := productsvc.NewService(recordStore, cacheStore, uploader, logg)
	if err != nil {
		logg.Error(ctx, "failed to create product service", err)
		os.Exit(1)
	}
	couponRegistry, err := coupons.NewRegistry(cacheStore)
	if err != nil {
		logg.Error(ctx, "failed to create coupon registry", err)
		os.Exit(1)
	}
	cartService, err := cartsvc.NewService(cacheStore, couponRegistry, recordStore, logg)
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}
	settingsService, err := settings.NewService(cacheStore, recordStore, uploader, logg)
	if err != nil {
		logg.Error(ctx, "failed to create settings service", err)
		os.Exit(1)
	}
	engine, err := syncengine.NewEngine(recordStore, cacheStore, cfg.Sync, logg, met)
	if err != nil {
		logg.Error(ctx, "failed to create sync engine", err)
		os.Exit(1)
	}
	ledger, err := finance.NewLedger(cacheStore, writer)
	if err != nil {
		logg.Error(ctx, "failed to create financial ledger", err)
		os.Exit(1)
	}

	// Warm the catalog before accepting traffic. A degraded pass still
	// leaves the cached copy serving.
	if _, err := engine.Reconcile(ctx, true); err != nil {
		logg.Warn(ctx, "initial catalog reconciliation failed, serving cached data")
	}

	port := env.Get("PORT", cfg.App.Port)
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			redisBackend,
			remotePinger,
			productService,
			cartService,
			couponRegistry,
			settingsService,
			engine,
			ledger,
			prometheus.DefaultGatherer,
		),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "error shutting down api server", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "api server shutting down gracefully")
}
