package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/chunker"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/logger"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/repository"
)

// IngestService populates every (chunking strategy, embedding model)
// collection from the movie dataset.
type IngestService struct {
	store         repository.VectorStore
	registry      *EmbeddingRegistry
	workers       int
	retryCount    int
	retryDelay    time.Duration
	skipThreshold uint64
	chunkSize     int
	chunkOverlap  int
}

// IngestConfig holds configuration for the ingest service.
type IngestConfig struct {
	Workers       int
	RetryCount    int
	RetryDelay    time.Duration
	SkipThreshold uint64
	ChunkSize     int
	ChunkOverlap  int
}

// NewIngestService creates a new ingest service.
func NewIngestService(store repository.VectorStore, registry *EmbeddingRegistry, cfg *IngestConfig) *IngestService {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 3
	}
	retryCount := cfg.RetryCount
	if retryCount <= 0 {
		retryCount = 10
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 200 * time.Millisecond
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = chunker.DefaultMaxSize
	}
	chunkOverlap := cfg.ChunkOverlap
	if chunkOverlap <= 0 {
		chunkOverlap = chunker.DefaultOverlap
	}

	return &IngestService{
		store:         store,
		registry:      registry,
		workers:       workers,
		retryCount:    retryCount,
		retryDelay:    retryDelay,
		skipThreshold: cfg.SkipThreshold,
		chunkSize:     chunkSize,
		chunkOverlap:  chunkOverlap,
	}
}

// IngestStats holds statistics for one ingestion run.
type IngestStats struct {
	Collections        int64
	SkippedCollections int64
	IndexedRecords     int64
	FailedRecords      int64
	StartTime          time.Time
	EndTime            time.Time
}

// IngestOptions holds options for ingestion.
type IngestOptions struct {
	Force bool // If true, re-populate collections that already hold data
}

// collectionJob is one unit of work: a full dataset pass for one
// (strategy, model) collection.
type collectionJob struct {
	strategy string
	model    string
}

// Populate fans the dataset out over every (strategy, model) pair. Pairs are
// processed by a bounded worker pool; one pair failing does not stop the
// others.
func (s *IngestService) Populate(ctx context.Context, records []domain.MovieRecord, opts *IngestOptions) (*IngestStats, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}

	stats := &IngestStats{StartTime: time.Now()}

	var jobs []collectionJob
	for _, strategy := range domain.ChunkingStrategies {
		for _, model := range s.registry.Names() {
			jobs = append(jobs, collectionJob{strategy: strategy, model: model})
		}
	}
	stats.Collections = int64(len(jobs))

	logger.CtxInfo(ctx, "Starting ingestion: records=%d, collections=%d, workers=%d",
		len(records), len(jobs), s.workers)

	jobsChan := make(chan collectionJob)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobsChan {
				if ctx.Err() != nil {
					return
				}
				s.populateCollection(ctx, job, records, opts, stats)
			}
		}()
	}

	for _, job := range jobs {
		select {
		case jobsChan <- job:
		case <-ctx.Done():
		}
	}
	close(jobsChan)
	wg.Wait()

	stats.EndTime = time.Now()

	logger.CtxInfo(ctx, "Ingestion completed: collections=%d, skipped=%d, indexed=%d, failed=%d, duration=%s",
		stats.Collections, stats.SkippedCollections, stats.IndexedRecords, stats.FailedRecords,
		stats.EndTime.Sub(stats.StartTime))

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// populateCollection runs one full dataset pass for a single collection.
func (s *IngestService) populateCollection(ctx context.Context, job collectionJob, records []domain.MovieRecord, opts *IngestOptions, stats *IngestStats) {
	collection := domain.CollectionName(job.strategy, job.model)
	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldCollection: collection,
		logger.FieldStrategy:   job.strategy,
		logger.FieldModel:      job.model,
	})

	provider, err := s.registry.Get(job.model)
	if err != nil {
		logger.CtxError(ctx, "Skipping collection, no provider: error=%v", err)
		atomic.AddInt64(&stats.SkippedCollections, 1)
		return
	}

	if err := s.store.EnsureCollection(ctx, collection, provider.Dimensions()); err != nil {
		logger.CtxError(ctx, "Skipping collection, ensure failed: error=%v", err)
		atomic.AddInt64(&stats.SkippedCollections, 1)
		return
	}

	// A collection that already holds data was populated by an earlier run.
	if !opts.Force {
		count, err := s.store.Count(ctx, collection)
		if err != nil {
			logger.CtxWarn(ctx, "Count failed, populating anyway: error=%v", err)
		} else if count > s.skipThreshold {
			logger.CtxInfo(ctx, "Collection already populated, skipping: count=%d", count)
			atomic.AddInt64(&stats.SkippedCollections, 1)
			return
		}
	}

	splitter, err := chunker.New(job.strategy, s.chunkSize, s.chunkOverlap, provider)
	if err != nil {
		logger.CtxError(ctx, "Skipping collection, bad splitter: error=%v", err)
		atomic.AddInt64(&stats.SkippedCollections, 1)
		return
	}

	for i := range records {
		if ctx.Err() != nil {
			return
		}
		s.indexMovie(ctx, collection, job, splitter, provider, &records[i], stats)
	}
}

// indexMovie chunks, embeds, and upserts one movie. Record IDs derive from
// the movie title and chunk position, so re-ingesting the same dataset
// replaces records instead of duplicating them.
func (s *IngestService) indexMovie(ctx context.Context, collection string, job collectionJob, splitter chunker.Splitter, provider EmbeddingProvider, movie *domain.MovieRecord, stats *IngestStats) {
	chunks, err := splitter.Split(ctx, movie.Description)
	if err != nil {
		logger.CtxWarn(ctx, "Chunking failed: title=%q, error=%v", movie.Title, err)
		atomic.AddInt64(&stats.FailedRecords, 1)
		return
	}
	if len(chunks) == 0 {
		return
	}

	embeddings, err := provider.EmbedBatch(ctx, chunks)
	if err != nil {
		logger.CtxWarn(ctx, "Embedding failed: title=%q, error=%v", movie.Title, err)
		atomic.AddInt64(&stats.FailedRecords, int64(len(chunks)))
		return
	}

	movieID := stableID(movie.Title)

	for i, chunk := range chunks {
		if len(embeddings[i]) != provider.Dimensions() {
			logger.CtxError(ctx, "Dimension mismatch, dropping record: title=%q, chunk=%d, got=%d, want=%d",
				movie.Title, i, len(embeddings[i]), provider.Dimensions())
			atomic.AddInt64(&stats.FailedRecords, 1)
			continue
		}

		record := &domain.IndexedRecord{
			ID:        stableID(movie.Title, job.strategy, job.model, strconv.Itoa(i)),
			Embedding: embeddings[i],
			Metadata: domain.RecordMetadata{
				MovieID:     movieID,
				Title:       movie.Title,
				Year:        movie.Year,
				Genres:      movie.Genres,
				Description: chunk,
			},
		}

		if err := s.upsertWithRetry(ctx, collection, record); err != nil {
			logger.CtxError(ctx, "Dropping record after retries: title=%q, chunk=%d, error=%v",
				movie.Title, i, err)
			atomic.AddInt64(&stats.FailedRecords, 1)
			continue
		}
		atomic.AddInt64(&stats.IndexedRecords, 1)
	}
}

// upsertWithRetry retries transient upsert failures with a fixed delay.
// Configuration and record-encoding failures are fatal for the record and
// abort immediately; retrying them cannot succeed.
func (s *IngestService) upsertWithRetry(ctx context.Context, collection string, record *domain.IndexedRecord) error {
	var lastErr error
	for attempt := 0; attempt < s.retryCount; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = s.store.Upsert(ctx, collection, record)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, domain.ErrFilterEncoding) || errors.Is(lastErr, domain.ErrConfiguration) {
			return lastErr
		}

		select {
		case <-time.After(s.retryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("upsert failed after %d attempts: %w", s.retryCount, lastErr)
}

// stableID derives a deterministic UUID from the given parts.
func stableID(parts ...string) string {
	var key string
	for i, part := range parts {
		if i > 0 {
			key += "|"
		}
		key += part
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}
