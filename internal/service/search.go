package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/logger"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/repository"
)

// SearchService runs filtered similarity searches against the collection
// selected by a (chunking strategy, embedding model) pair.
type SearchService struct {
	store    repository.VectorStore
	registry *EmbeddingRegistry
}

// NewSearchService creates a new search service.
func NewSearchService(store repository.VectorStore, registry *EmbeddingRegistry) *SearchService {
	return &SearchService{
		store:    store,
		registry: registry,
	}
}

// Search embeds the query with the requested model and searches the matching
// collection. Results are deduplicated per movie title, keeping the highest
// scored chunk of each movie.
func (s *SearchService) Search(ctx context.Context, strategy, model, query string, filter *domain.QueryFilter, k int, minScore float32) ([]domain.SearchResult, error) {
	if !domain.KnownStrategy(strategy) {
		return nil, fmt.Errorf("%w: unknown chunking strategy %q", domain.ErrConfiguration, strategy)
	}
	provider, err := s.registry.Get(model)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	vector, err := provider.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	collection := domain.CollectionName(strategy, model)
	results, err := s.store.Search(ctx, collection, vector, filter, k, minScore)
	if err != nil {
		return nil, err
	}

	results = dedupeByTitle(results)

	logger.FromContext(ctx).WithFields(logger.Fields{
		logger.FieldCollection: collection,
		logger.FieldCount:      len(results),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info("Search complete")

	return results, nil
}

// dedupeByTitle keeps the first (highest scored) result for each title.
// Chunked descriptions mean one movie can match several times.
func dedupeByTitle(results []domain.SearchResult) []domain.SearchResult {
	seen := make(map[string]struct{}, len(results))
	deduped := results[:0]
	for _, r := range results {
		if _, ok := seen[r.Title]; ok {
			continue
		}
		seen[r.Title] = struct{}{}
		deduped = append(deduped, r)
	}
	return deduped
}
