package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/femitubosun/codygo-task/internal/extractor"
	"github.com/femitubosun/codygo-task/internal/index"
	dynamostore "github.com/femitubosun/codygo-task/internal/index/dynamo"
	memindex "github.com/femitubosun/codygo-task/internal/index/memory"
	pgstore "github.com/femitubosun/codygo-task/internal/index/postgres"
	"github.com/femitubosun/codygo-task/internal/indexer"
	"github.com/femitubosun/codygo-task/internal/storage"
	memstorage "github.com/femitubosun/codygo-task/internal/storage/memory"
	miniostorage "github.com/femitubosun/codygo-task/internal/storage/minio"
	s3storage "github.com/femitubosun/codygo-task/internal/storage/s3"
	"github.com/femitubosun/codygo-task/pkg/config"
	"github.com/femitubosun/codygo-task/pkg/kafka"
	"github.com/femitubosun/codygo-task/pkg/logger"
	"github.com/femitubosun/codygo-task/pkg/metrics"
	"github.com/femitubosun/codygo-task/pkg/postgres"
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
	slog.Info("starting indexer service",
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

	m := metrics.New()
	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	ix := indexer.New(store, docs, extractor.PlainText{}, m)
	handler := indexer.HandleMessage(ix, cfg.Indexer.Timeout)
	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.DocumentStored, handler)

	slog.Info("indexer service ready, consuming from kafka",
		"topic", cfg.Kafka.Topics.DocumentStored,
		"group", cfg.Kafka.ConsumerGroup,
	)

	if err := consumer.Start(ctx); err != nil {
		slog.Error("consumer error", "error", err)
	}

	slog.Info("indexer service stopped")
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
