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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/maintenance"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/config"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/db"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/env"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/instance"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/logger"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/metrics"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/outbox"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "maintenance-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	if !cfg.DB.Enabled() {
		logg.Error(context.Background(), "maintenance worker needs a database", errors.New(config.EnvDBDSN+" is not set"))
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "maintenance-worker",
		Level:       cfg.App.LogLevel,
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

	var lock maintenance.Lock = &maintenance.LocalLock{}
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisLock, err := maintenance.NewRedisLock(redisClient, redisClient.LockKey("maintenance", cfg.App.Env), cfg.Maintenance.LockTTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create maintenance lock", err)
			os.Exit(1)
		}
		lock = redisLock
	}

	retention, err := maintenance.NewOutboxRetention(maintenance.OutboxRetentionParams{
		Logger:      logg,
		DB:          dbClient,
		Events:      outbox.NewRepository(dbClient.DB()),
		DLQ:         outbox.NewDLQRepository(dbClient.DB()),
		Metrics:     metrics.NewOutboxMetrics(prometheus.DefaultRegisterer),
		Published:   cfg.Maintenance.OutboxRetention,
		DeadLetters: cfg.Maintenance.DLQRetention,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox retention job", err)
		os.Exit(1)
	}

	runner, err := maintenance.NewRunner(maintenance.RunnerParams{
		Logger:   logg,
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Maintenance.Interval,
		Jobs:     []maintenance.Job{retention},
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create maintenance runner", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
		"interval": cfg.Maintenance.Interval.String(),
	})

	if port := env.Get("METRICS_PORT", ""); port != "" {
		server := &http.Server{
			Addr:              ":" + port,
			Handler:           promhttp.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logg.Error(ctx, "metrics server stopped", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	logg.Info(ctx, "starting maintenance worker")

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "maintenance worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "maintenance worker shutting down gracefully")
}
