package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/api/routes"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/cart"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/catalog"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/quotes"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/search"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/config"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/db"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/env"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/instance"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/logger"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/metrics"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/migrate"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/outbox"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/redis"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/supabase"
)

const shutdownTimeout = 15 * time.Second

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
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := routes.Deps{Config: cfg, Logger: logg}

	var dbClient *db.Client
	if cfg.DB.Enabled() {
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return fmt.Errorf("bootstrap database: %w", err)
		}
		defer func() {
			if err := client.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()
		if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			return fmt.Errorf("run dev migrations: %w", err)
		}
		dbClient = client
		deps.DB = client
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return fmt.Errorf("bootstrap redis: %w", err)
		}
		defer func() {
			if err := client.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisClient = client
		deps.Redis = client
	}

	var supa *supabase.Client
	if strings.TrimSpace(cfg.Supabase.URL) != "" {
		client, err := supabase.NewFromConfig(cfg.Supabase)
		if err != nil {
			return fmt.Errorf("build supabase client: %w", err)
		}
		supa = client
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Gatherer = reg
	deps.HTTPMetrics = metrics.NewHTTPMetrics(reg)
	deps.QuoteMetrics = metrics.NewQuoteMetrics(reg)

	source, err := catalogSource(cfg, dbClient, supa)
	if err != nil {
		return err
	}
	loaderParams := catalog.LoaderParams{Source: source, CacheTTL: cfg.Catalog.CacheTTL, Logger: logg}
	if redisClient != nil {
		loaderParams.Cache = redisClient
	}
	loader, err := catalog.NewLoader(loaderParams)
	if err != nil {
		return fmt.Errorf("build catalog loader: %w", err)
	}
	if _, err := loader.Get(ctx); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	deps.Catalog = loader

	deps.Carts = cart.NewRegistry(cfg.Cart.IdleTTL)
	metrics.RegisterActiveCarts(reg, deps.Carts.Len)

	submitter, err := quoteSubmitter(cfg, dbClient, supa, logg)
	if err != nil {
		return err
	}
	quoteService, err := quotes.NewService(quotes.ServiceParams{
		Carts:          deps.Carts,
		Submitter:      submitter,
		SuccessDisplay: cfg.Quotes.SuccessDisplay,
		IdleTTL:        cfg.Cart.IdleTTL,
		Metrics:        deps.QuoteMetrics,
		Logger:         logg,
	})
	if err != nil {
		return fmt.Errorf("build quote service: %w", err)
	}
	deps.Quotes = quoteService

	quoteMetrics := deps.QuoteMetrics
	deps.Searches = search.NewRecorder(cfg.Search.Debounce(), func(sessionID string, q search.Query) {
		quoteMetrics.IncSearch(q.Total > 0)
		searchCtx := logg.WithSessionID(context.Background(), sessionID)
		searchCtx = logg.WithFields(searchCtx, map[string]any{
			"term":       q.Term,
			"categories": q.Categories,
			"total":      q.Total,
		})
		logg.Info(searchCtx, "catalog.search")
	})
	defer deps.Searches.Close()

	addr := ":" + env.Get("PORT", cfg.App.Port)
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":              cfg.App.Env,
		"addr":             addr,
		"instance":         instance.GetID(),
		"catalog_source":   source.Name(),
		"quote_backend":    submitter.Name(),
		"redis_enabled":    redisClient != nil,
		"database_enabled": dbClient != nil,
	})
	logg.Info(serverCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info(serverCtx, "api server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func catalogSource(cfg *config.Config, dbClient *db.Client, supa *supabase.Client) (catalog.Source, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceDatabase:
		if dbClient == nil {
			return nil, errors.New("database catalog source requires a database connection")
		}
		return catalog.NewDBSource(catalog.NewRepository(dbClient.DB())), nil
	case config.CatalogSourceRemote:
		if supa == nil {
			return nil, errors.New("remote catalog source requires supabase")
		}
		return catalog.NewRemoteSource(supa, cfg.Supabase.ServicesTable), nil
	default:
		return catalog.StaticSource{}, nil
	}
}

func quoteSubmitter(cfg *config.Config, dbClient *db.Client, supa *supabase.Client, logg *logger.Logger) (quotes.Submitter, error) {
	switch cfg.Quotes.Backend {
	case config.QuoteBackendDatabase:
		if dbClient == nil {
			return nil, errors.New("database quote backend requires a database connection")
		}
		events := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
		return quotes.NewStoreSubmitter(dbClient, quotes.NewRepository(dbClient.DB()), events), nil
	case config.QuoteBackendOrders:
		if supa == nil {
			return nil, errors.New("orders quote backend requires supabase")
		}
		return quotes.NewOrderSubmitter(supa, cfg.Supabase.OrdersTable), nil
	default:
		if supa == nil {
			return nil, errors.New("rpc quote backend requires supabase")
		}
		return quotes.NewRPCSubmitter(supa, cfg.Supabase.RPCFunction), nil
	}
}
