package config

import (
	"fmt"
	"os"
	"time"
)

// knownModelDimensions maps embedding model names to their fixed output
// dimension. A query must only compare vectors produced by the same model as
// the collection it targets, so the dimension is pinned per model.
var knownModelDimensions = map[string]int{
	"all-MiniLM-L6-v2":          384,
	"bert-base-nli-mean-tokens": 768,
	"gtr-t5-base":               768,
}

// EmbeddingConfig defines configuration for a single embedding model served
// by the external embedding server.
type EmbeddingConfig struct {
	Name       string `mapstructure:"name"`         // model name, also the registry key
	BaseURL    string `mapstructure:"base_url"`     // embedding server base URL
	BaseURLEnv string `mapstructure:"base_url_env"` // env var holding the base URL
	APIKey     string        `mapstructure:"api_key"`
	APIKeyEnv  string        `mapstructure:"api_key_env"`
	Dimensions int           `mapstructure:"dimensions"`
	Timeout    time.Duration `mapstructure:"timeout"` // request timeout, defaults downstream
}

// DefaultEmbeddings returns the three models the pipeline is evaluated with,
// addressed at a local embedding server.
func DefaultEmbeddings() []EmbeddingConfig {
	configs := make([]EmbeddingConfig, 0, len(knownModelDimensions))
	for _, name := range []string{"all-MiniLM-L6-v2", "bert-base-nli-mean-tokens", "gtr-t5-base"} {
		configs = append(configs, EmbeddingConfig{
			Name:       name,
			BaseURLEnv: "EMBEDDING_API",
			Dimensions: knownModelDimensions[name],
		})
	}
	return configs
}

// ResolveEnvVars resolves environment variable references. Direct values
// take precedence if already set.
func (c *EmbeddingConfig) ResolveEnvVars() {
	if c.BaseURLEnv != "" && c.BaseURL == "" {
		if val := os.Getenv(c.BaseURLEnv); val != "" {
			c.BaseURL = val
		}
	}
	if c.APIKeyEnv != "" && c.APIKey == "" {
		if val := os.Getenv(c.APIKeyEnv); val != "" {
			c.APIKey = val
		}
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8081"
	}
}

// Validate checks that the configuration has all required fields, filling
// the dimension from the known-model table when omitted.
func (c *EmbeddingConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("embedding config: name is required")
	}
	if c.Dimensions <= 0 {
		dim, ok := knownModelDimensions[c.Name]
		if !ok {
			return fmt.Errorf("embedding %q: dimensions must be set for unknown models", c.Name)
		}
		c.Dimensions = dim
	}
	return nil
}

// Clone creates a copy of the embedding configuration.
func (c *EmbeddingConfig) Clone() *EmbeddingConfig {
	clone := *c
	return &clone
}
