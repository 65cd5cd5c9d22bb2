package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/femitubosun/codygo-task/internal/downloader"
	"github.com/femitubosun/codygo-task/internal/index"
	dynamostore "github.com/femitubosun/codygo-task/internal/index/dynamo"
	memindex "github.com/femitubosun/codygo-task/internal/index/memory"
	pgstore "github.com/femitubosun/codygo-task/internal/index/postgres"
	"github.com/femitubosun/codygo-task/internal/searcher"
	"github.com/femitubosun/codygo-task/internal/searcher/cache"
	"github.com/femitubosun/codygo-task/internal/searcher/handler"
	"github.com/femitubosun/codygo-task/internal/searcher/resolver"
	"github.com/femitubosun/codygo-task/internal/storage"
	memstorage "github.com/femitubosun/codygo-task/internal/storage/memory"
	miniostorage "github.com/femitubosun/codygo-task/internal/storage/minio"
	s3storage "github.com/femitubosun/codygo-task/internal/storage/s3"
	"github.com/femitubosun/codygo-task/pkg/config"
	"github.com/femitubosun/codygo-task/pkg/health"
	"github.com/femitubosun/codygo-task/pkg/logger"
	"github.com/femitubosun/codygo-task/pkg/metrics"
	"github.com/femitubosun/codygo-task/pkg/postgres"
	pkgredis "github.com/femitubosun/codygo-task/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service",
		"port", cfg.Server.Port,
		"index_backend", cfg.Index.Backend,
		"storage_backend", cfg.Storage.Backend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := newIndexStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to create index store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	docs, err := newDocumentStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to create document store", "error", err)
		os.Exit(1)
	}

	var queryCache *cache.QueryCache
	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, search caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis)
		slog.Info("search cache enabled",
			"addr", cfg.Redis.Addr,
			"ttl", cfg.Redis.CacheTTL,
		)
	}

	m := metrics.New()
	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	checker := health.NewChecker()
	checker.Register("index_store", func(ctx context.Context) health.ComponentHealth {
		if _, err := store.GetEntry(ctx, "healthcheck"); err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	search := handler.New(resolver.New(store), queryCache, m, cfg.Search.DownloadBaseURL)
	download := downloader.New(docs, m)
	router := searcher.NewRouter(search, download, checker, m, cfg.Search.APIKey, cfg.Server.RequestTimeout)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("search service stopped")
}

func newIndexStore(ctx context.Context, cfg *config.Config) (index.Store, func(), error) {
	switch cfg.Index.Backend {
	case "dynamo":
		client, err := dynamostore.NewClient(ctx, cfg.Dynamo)
		if err != nil {
			return nil, nil, err
		}
		return dynamostore.NewStore(client, cfg.Index.TableName(cfg.App)), func() {}, nil
	case "postgres":
		client, err := postgres.New(cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return pgstore.NewStore(client), func() { client.Close() }, nil
	case "memory":
		return memindex.New(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown index backend %q", cfg.Index.Backend)
	}
}

func newDocumentStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "s3":
		client, err := s3storage.NewClient(ctx, cfg.Storage.Region)
		if err != nil {
			return nil, err
		}
		return s3storage.NewStore(client, cfg.Storage.BucketName(cfg.App)), nil
	case "minio":
		client, err := miniostorage.NewClient(cfg.Storage)
		if err != nil {
			return nil, err
		}
		return miniostorage.NewStore(client, cfg.Storage.BucketName(cfg.App)), nil
	case "memory":
		return memstorage.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
