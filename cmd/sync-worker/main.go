package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	syncengine "github.com/tacoloja/storefront-backend/internal/sync"
	"github.com/tacoloja/storefront-backend/pkg/cache"
	"github.com/tacoloja/storefront-backend/pkg/config"
	"github.com/tacoloja/storefront-backend/pkg/logger"
	"github.com/tacoloja/storefront-backend/pkg/metrics"
	"github.com/tacoloja/storefront-backend/pkg/remote"
	"github.com/tacoloja/storefront-backend/pkg/remote/rest"
	"github.com/tacoloja/storefront-backend/pkg/remote/sqlstore"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "sync-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "sync-worker"

	logg = logger.New(logger.Options{
		ServiceName: "sync-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	met := metrics.NewSyncMetrics(prometheus.DefaultRegisterer)

	var recordStore remote.Store
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
	} else {
		restClient, err := rest.NewClient(ctx, cfg.Remote, cfg.Storage, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap remote client", err)
			os.Exit(1)
		}
		recordStore = restClient
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

	engine, err := syncengine.NewEngine(recordStore, cacheStore, cfg.Sync, logg, met)
	if err != nil {
		logg.Error(ctx, "failed to create sync engine", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting sync worker")

	engine.Run(ctx)

	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "sync worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "sync worker shutting down gracefully")
}
