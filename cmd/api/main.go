package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/api"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/api/handler"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/api/middleware"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/config"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/llm"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/logger"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/repository"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/service"
)

func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "movie-search-api",
	})
	logger.SetDefaultLogger(appLogger)

	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	ctx := context.Background()

	store, err := newStore(ctx, cfg)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize vector store")
	}
	defer store.Close()

	registry, err := service.NewEmbeddingRegistry(cfg.Embeddings)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize embedding registry")
	}

	llmClient := llm.NewClient(&llm.Config{
		BaseURL: cfg.LLM.BaseURL,
		Timeout: cfg.LLM.Timeout,
	})
	genres := llm.LoadGenres(cfg.Genres.Path)

	searchService := service.NewSearchService(store, registry)
	extractor := service.NewMetadataExtractor(llmClient, genres)
	ragService := service.NewRAGService(extractor, searchService, llmClient)

	router := api.SetupRouter(searchService, ragService, &api.RouterConfig{
		Mode: cfg.Server.Mode,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
		Defaults: handler.SearchDefaults{
			Strategy: cfg.Search.DefaultStrategy,
			Model:    cfg.Search.DefaultModel,
			MinScore: cfg.Search.ScoreThreshold,
		},
		Genres: genres,
		Models: registry.Names(),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
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
