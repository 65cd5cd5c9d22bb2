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

	"github.com/femitubosun/codygo-task/internal/ingestion"
	"github.com/femitubosun/codygo-task/internal/storage"
	memstorage "github.com/femitubosun/codygo-task/internal/storage/memory"
	miniostorage "github.com/femitubosun/codygo-task/internal/storage/minio"
	s3storage "github.com/femitubosun/codygo-task/internal/storage/s3"
	"github.com/femitubosun/codygo-task/pkg/config"
	"github.com/femitubosun/codygo-task/pkg/health"
	"github.com/femitubosun/codygo-task/pkg/kafka"
	"github.com/femitubosun/codygo-task/pkg/logger"
	"github.com/femitubosun/codygo-task/pkg/metrics"
	"github.com/femitubosun/codygo-task/pkg/middleware"
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
	slog.Info("starting ingestion service",
		"port", cfg.Server.Port,
		"storage_backend", cfg.Storage.Backend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs, err := newDocumentStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to create document store", "error", err)
		os.Exit(1)
	}

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.DocumentStored)
	defer producer.Close()
	publisher := ingestion.NewPublisher(producer)
	h := ingestion.NewHandler(docs, publisher)

	m := metrics.New()
	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	checker := health.NewChecker()
	checker.Register("document_store", func(ctx context.Context) health.ComponentHealth {
		rc, err := docs.Fetch(ctx, "healthcheck")
		if err != nil && err != storage.ErrNotFound {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		if rc != nil {
			rc.Close()
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/documents", h.Upload)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
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

	slog.Info("ingestion service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("ingestion service stopped")
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
