package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/config"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/dataset"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/logger"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/repository"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/service"
)

func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "movie-search-ingest",
	})
	logger.SetDefaultLogger(appLogger)

	configPath := flag.String("config", "", "Path to config file")
	datasetPath := flag.String("dataset", "", "Override dataset path (local CSV)")
	limit := flag.Int("limit", 0, "Maximum number of movies to ingest (0 = all)")
	force := flag.Bool("force", false, "Re-populate collections that already hold data")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}
	if *datasetPath != "" {
		cfg.Dataset.Type = "local"
		cfg.Dataset.Path = *datasetPath
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	src, err := dataset.NewSource(ctx, &cfg.Dataset)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to create dataset source")
	}

	records, err := dataset.Load(ctx, src)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load dataset")
	}
	if *limit > 0 && *limit < len(records) {
		records = records[:*limit]
	}

	appLogger.WithFields(logger.Fields{
		"movies": len(records),
		"force":  *force,
	}).Info("Dataset loaded")

	store, err := newStore(ctx, cfg)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize vector store")
	}
	defer store.Close()

	registry, err := service.NewEmbeddingRegistry(cfg.Embeddings)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize embedding registry")
	}

	ingestService := service.NewIngestService(store, registry, &service.IngestConfig{
		Workers:       cfg.Ingest.Workers,
		RetryCount:    cfg.Ingest.RetryCount,
		RetryDelay:    cfg.Ingest.RetryDelay,
		SkipThreshold: uint64(cfg.Ingest.SkipThreshold),
	})

	stats, err := ingestService.Populate(ctx, records, &service.IngestOptions{Force: *force})
	if err != nil {
		appLogger.WithError(err).Error("Ingestion interrupted")
	}
	appLogger.WithFields(logger.Fields{
		"collections": stats.Collections,
		"skipped":     stats.SkippedCollections,
		"indexed":     stats.IndexedRecords,
		"failed":      stats.FailedRecords,
		"duration":    stats.EndTime.Sub(stats.StartTime).String(),
	}).Info("Ingestion completed")
}

// newStore picks the vector store backend from configuration.
func newStore(ctx context.Context, cfg *config.Config) (repository.VectorStore, error) {
	switch cfg.Store.Backend {
	case "qdrant":
		return repository.NewQdrantStore(&repository.QdrantConfig{
			Host:   cfg.Qdrant.Host,
			Port:   cfg.Qdrant.Port,
			APIKey: cfg.Qdrant.APIKey,
			UseTLS: cfg.Qdrant.UseTLS,
		})
	case "", "pgvector":
		return repository.NewPgVectorStore(ctx, cfg.Postgres.DSN())
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
