package service

import (
	"context"
	"strings"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/llm"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/logger"
)

// noReasoningPlaceholder is returned when reasoning generation fails; a
// found movie is still worth returning without its justification.
const noReasoningPlaceholder = "No reasoning available."

// RAGService chains the full pipeline: metadata extraction, filtered
// retrieval with an unfiltered fallback, and reasoning generation for the
// best match.
type RAGService struct {
	extractor *MetadataExtractor
	search    *SearchService
	generator Generator
}

// NewRAGService creates a new RAG orchestrator.
func NewRAGService(extractor *MetadataExtractor, search *SearchService, generator Generator) *RAGService {
	return &RAGService{
		extractor: extractor,
		search:    search,
		generator: generator,
	}
}

// Recommend runs the pipeline for one query. When the filtered search comes
// back empty the filter is dropped and the search retried once; only an
// empty unfiltered search is a no-match, reported as domain.ErrNoMatch.
func (s *RAGService) Recommend(ctx context.Context, query, strategy, model string) (*domain.Recommendation, error) {
	filter := s.extractor.Extract(ctx, query)

	results, err := s.search.Search(ctx, strategy, model, query, &filter, 1, 0)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 && !filter.IsEmpty() {
		logger.CtxInfo(ctx, "Filtered search empty, retrying unfiltered")
		unfiltered := domain.EmptyFilter()
		results, err = s.search.Search(ctx, strategy, model, query, &unfiltered, 1, 0)
		if err != nil {
			return nil, err
		}
	}

	if len(results) == 0 {
		return nil, domain.ErrNoMatch
	}

	best := results[0]
	return &domain.Recommendation{
		Title:       best.Title,
		Year:        best.Year,
		Genres:      best.Genres,
		Description: best.Description,
		Reasoning:   s.reasoning(ctx, query, best),
		Similarity:  best.Similarity,
	}, nil
}

// reasoning generates the natural-language justification for a match.
// Generation failures degrade to a placeholder rather than failing the
// recommendation.
func (s *RAGService) reasoning(ctx context.Context, query string, movie domain.SearchResult) string {
	prompt := llm.BuildReasoningPrompt(query, movie.Title, movie.Description)

	out, err := s.generator.Generate(ctx, prompt, llm.ReasoningParams())
	if err != nil {
		logger.CtxWarn(ctx, "Reasoning generation failed: title=%q, error=%v", movie.Title, err)
		return noReasoningPlaceholder
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return noReasoningPlaceholder
	}
	return out
}
