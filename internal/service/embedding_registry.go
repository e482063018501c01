package service

import (
	"fmt"
	"sync"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/config"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/logger"
)

// EmbeddingRegistry holds one provider per configured embedding model.
// Collection routing happens per (strategy, model) pair at call sites via
// domain.CollectionName, so the registry only resolves model names.
type EmbeddingRegistry struct {
	configs   map[string]*config.EmbeddingConfig
	providers map[string]EmbeddingProvider
	names     []string
	mu        sync.RWMutex
}

// NewEmbeddingRegistry creates a registry from all configured embeddings.
// Invalid configurations are logged and skipped rather than causing failure.
func NewEmbeddingRegistry(embeddings []config.EmbeddingConfig) (*EmbeddingRegistry, error) {
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("%w: at least one embedding configuration is required", domain.ErrConfiguration)
	}

	r := &EmbeddingRegistry{
		configs:   make(map[string]*config.EmbeddingConfig),
		providers: make(map[string]EmbeddingProvider),
	}

	for i := range embeddings {
		embCfg := embeddings[i].Clone()
		embCfg.ResolveEnvVars()

		if err := embCfg.Validate(); err != nil {
			logger.Warn("Skipping invalid embedding config: index=%d, error=%v", i, err)
			continue
		}

		r.configs[embCfg.Name] = embCfg
		r.providers[embCfg.Name] = NewEmbeddingService(&EmbeddingServiceConfig{
			Model:      embCfg.Name,
			BaseURL:    embCfg.BaseURL,
			APIKey:     embCfg.APIKey,
			Dimensions: embCfg.Dimensions,
			Timeout:    embCfg.Timeout,
		})
		r.names = append(r.names, embCfg.Name)

		logger.Info("Registered embedding: name=%s, base_url=%s, dim=%d",
			embCfg.Name, embCfg.BaseURL, embCfg.Dimensions)
	}

	if len(r.configs) == 0 {
		return nil, fmt.Errorf("%w: no valid embedding configurations found", domain.ErrConfiguration)
	}

	return r, nil
}

// Get returns the provider for the given model name.
func (r *EmbeddingRegistry) Get(name string) (EmbeddingProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown embedding model %q", domain.ErrConfiguration, name)
	}
	return provider, nil
}

// Names returns all registered model names in registration order.
func (r *EmbeddingRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}
