package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
)

// EmbeddingProvider generates sentence embeddings for a single model.
type EmbeddingProvider interface {
	// Embed generates an embedding for a single text
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch generates embeddings for multiple texts
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimensions returns the embedding vector dimensions
	Dimensions() int
	// Model returns the model name being used
	Model() string
}

// EmbeddingService calls an OpenAI-compatible embedding server for one
// sentence-transformer model.
type EmbeddingService struct {
	client     *resty.Client
	endpoint   string
	model      string
	dimensions int
}

// EmbeddingServiceConfig holds configuration for an embedding service.
type EmbeddingServiceConfig struct {
	Model      string
	BaseURL    string
	APIKey     string
	Dimensions int
	Timeout    time.Duration
}

// NewEmbeddingService creates a new embedding service.
func NewEmbeddingService(cfg *EmbeddingServiceConfig) *EmbeddingService {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client.SetTimeout(timeout)
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	return &EmbeddingService{
		client:     client,
		endpoint:   cfg.BaseURL + "/v1/embeddings",
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// Model returns the model name being used.
func (s *EmbeddingService) Model() string {
	return s.model
}

// Dimensions returns the embedding vector dimensions.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Detail string `json:"detail,omitempty"`
}

// Embed generates an embedding for a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	req := embeddingRequest{
		Model: s.model,
		Input: texts,
	}

	var resp embeddingResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(s.endpoint)

	if err != nil {
		return nil, fmt.Errorf("%w: embedding server unreachable: %v", domain.ErrConnection, err)
	}

	if httpResp.StatusCode() != 200 {
		if resp.Detail != "" {
			return nil, fmt.Errorf("%w: embedding server error: %s", domain.ErrConnection, resp.Detail)
		}
		return nil, fmt.Errorf("%w: embedding server error: status %d", domain.ErrConnection, httpResp.StatusCode())
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("unexpected number of embeddings: got %d, expected %d", len(resp.Data), len(texts))
	}

	// Sort by index to ensure correct order
	embeddings := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(embeddings) {
			return nil, fmt.Errorf("embedding index %d out of range", item.Index)
		}
		if s.dimensions > 0 && len(item.Embedding) != s.dimensions {
			return nil, fmt.Errorf("model %s returned %d-dimensional vector, expected %d",
				s.model, len(item.Embedding), s.dimensions)
		}
		embeddings[item.Index] = item.Embedding
	}

	return embeddings, nil
}
