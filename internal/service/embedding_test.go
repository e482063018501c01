package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
)

func TestEmbedTimesOutOnStalledServer(t *testing.T) {
	stall := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-stall
	}))
	defer srv.Close()
	defer close(stall)

	svc := NewEmbeddingService(&EmbeddingServiceConfig{
		Model:      "all-MiniLM-L6-v2",
		BaseURL:    srv.URL,
		Dimensions: 3,
		Timeout:    50 * time.Millisecond,
	})

	start := time.Now()
	_, err := svc.Embed(context.Background(), "a request against a hung server")
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected an error from a stalled server")
	}
	if !errors.Is(err, domain.ErrConnection) {
		t.Errorf("expected a connection error, got %v", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("client did not enforce its timeout, request took %s", elapsed)
	}
}

func TestEmbedBatchOrdersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Items deliberately out of order.
		_, _ = w.Write([]byte(`{"data": [
			{"index": 1, "embedding": [0, 1]},
			{"index": 0, "embedding": [1, 0]}
		]}`))
	}))
	defer srv.Close()

	svc := NewEmbeddingService(&EmbeddingServiceConfig{
		Model:      "all-MiniLM-L6-v2",
		BaseURL:    srv.URL,
		Dimensions: 2,
		Timeout:    time.Second,
	})

	vectors, err := svc.EmbedBatch(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}
	if vectors[0][0] != 1 || vectors[1][1] != 1 {
		t.Errorf("vectors not reordered by index: %v", vectors)
	}
}
