// Package repository provides vector-store access. Two backends implement the
// same interface: Qdrant over gRPC and Postgres with the pgvector extension.
// Collections are addressed per call because every (chunking strategy,
// embedding model) pair gets its own collection.
package repository

import (
	"context"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
)

// VectorStore is the storage contract shared by both backends.
type VectorStore interface {
	// EnsureCollection creates the collection if it doesn't exist and
	// verifies the vector dimension when it does.
	EnsureCollection(ctx context.Context, collection string, dimensions int) error

	// Upsert inserts or replaces one indexed chunk record.
	Upsert(ctx context.Context, collection string, record *domain.IndexedRecord) error

	// Search returns up to k records whose similarity strictly exceeds
	// minScore, most similar first. Filter fields that are zero-valued are
	// not applied.
	Search(ctx context.Context, collection string, vector []float32, filter *domain.QueryFilter, k int, minScore float32) ([]domain.SearchResult, error)

	// Count returns the number of records in the collection.
	Count(ctx context.Context, collection string) (uint64, error)

	// Clear removes all records from the collection.
	Clear(ctx context.Context, collection string) error

	// Close releases backend connections.
	Close() error
}
