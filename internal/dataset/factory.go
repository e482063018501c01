package dataset

import (
	"context"
	"fmt"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/config"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
)

// NewSource creates a dataset source from configuration.
func NewSource(ctx context.Context, cfg *config.DatasetConfig) (Source, error) {
	switch cfg.Type {
	case "", "local":
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: dataset path is required for local source", domain.ErrConfiguration)
		}
		return NewLocalSource(cfg.Path), nil
	case "s3":
		return NewS3Source(ctx, &S3Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			UseSSL:    cfg.UseSSL,
			Region:    cfg.Region,
			Bucket:    cfg.Bucket,
			Key:       cfg.Key,
		})
	default:
		return nil, fmt.Errorf("%w: unknown dataset source type %q", domain.ErrConfiguration, cfg.Type)
	}
}
