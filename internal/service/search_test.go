package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
)

func populatedStore(t *testing.T) (*fakeStore, *EmbeddingRegistry) {
	t.Helper()
	store := newFakeStore()
	registry := testRegistry(t)

	svc := NewIngestService(store, registry, &IngestConfig{Workers: 1, RetryDelay: time.Millisecond})
	if _, err := svc.Populate(context.Background(), testMovies(), nil); err != nil {
		t.Fatalf("failed to populate: %v", err)
	}
	return store, registry
}

func TestSearchUnknownStrategy(t *testing.T) {
	store, registry := populatedStore(t)
	svc := NewSearchService(store, registry)

	_, err := svc.Search(context.Background(), "token-splitter", "all-MiniLM-L6-v2", "space horror", nil, 5, 0)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestSearchUnknownModel(t *testing.T) {
	store, registry := populatedStore(t)
	svc := NewSearchService(store, registry)

	_, err := svc.Search(context.Background(), domain.StrategyFixedSize, "no-such-model", "space horror", nil, 5, 0)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestSearchReturnsOrderedResults(t *testing.T) {
	store, registry := populatedStore(t)
	svc := NewSearchService(store, registry)

	results, err := svc.Search(context.Background(), domain.StrategyFixedSize, "all-MiniLM-L6-v2", "a crew in deep space", nil, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}

	for i := 1; i < len(results); i++ {
		if results[i].Similarity > results[i-1].Similarity {
			t.Errorf("results out of order at %d: %f > %f", i, results[i].Similarity, results[i-1].Similarity)
		}
	}
}

func TestSearchRespectsK(t *testing.T) {
	store, registry := populatedStore(t)
	svc := NewSearchService(store, registry)

	results, err := svc.Search(context.Background(), domain.StrategyFixedSize, "all-MiniLM-L6-v2", "a movie", nil, 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) > 1 {
		t.Errorf("got %d results, want at most 1", len(results))
	}
}

func TestSearchAppliesFilters(t *testing.T) {
	store, registry := populatedStore(t)
	svc := NewSearchService(store, registry)

	filter := &domain.QueryFilter{Genre: "crime"}
	results, err := svc.Search(context.Background(), domain.StrategyFixedSize, "all-MiniLM-L6-v2", "one last score", filter, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range results {
		if !containsString(r.Genres, "crime") {
			t.Errorf("result %q does not match genre filter", r.Title)
		}
	}

	filter = &domain.QueryFilter{MinYear: 1990}
	results, err = svc.Search(context.Background(), domain.StrategyFixedSize, "all-MiniLM-L6-v2", "one last score", filter, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range results {
		if r.Year < 1990 {
			t.Errorf("result %q from %d violates min year filter", r.Title, r.Year)
		}
	}
}

func TestSearchExclusiveScoreFloor(t *testing.T) {
	store, registry := populatedStore(t)
	svc := NewSearchService(store, registry)

	// An impossible floor filters everything: scores equal to the floor are
	// excluded, not included.
	results, err := svc.Search(context.Background(), domain.StrategyFixedSize, "all-MiniLM-L6-v2", "a movie", nil, 10, 1e9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results above floor, got %d", len(results))
	}
}

func TestDedupeByTitle(t *testing.T) {
	results := []domain.SearchResult{
		{Title: "Alien", Similarity: 0.9},
		{Title: "Heat", Similarity: 0.8},
		{Title: "Alien", Similarity: 0.7},
	}

	deduped := dedupeByTitle(results)
	if len(deduped) != 2 {
		t.Fatalf("got %d results, want 2", len(deduped))
	}
	if deduped[0].Title != "Alien" || deduped[0].Similarity != 0.9 {
		t.Errorf("highest scored chunk must win, got %+v", deduped[0])
	}
	if deduped[1].Title != "Heat" {
		t.Errorf("unexpected second result: %+v", deduped[1])
	}
}
