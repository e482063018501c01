package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/logger"
)

// collectionNamePattern guards dynamic table names. Collection names come
// from domain.CollectionName, which only emits lowercase, digits, and
// underscores; anything else must not reach SQL identifier position.
var collectionNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// PgVectorStore implements VectorStore on Postgres with the pgvector
// extension. Each collection maps to its own table, so tables can carry
// different vector dimensions.
type PgVectorStore struct {
	pool *pgxpool.Pool
}

// NewPgVectorStore connects to Postgres and enables the vector extension.
func NewPgVectorStore(ctx context.Context, dsn string) (*PgVectorStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create connection pool: %v", domain.ErrConnection, err)
	}

	if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: failed to enable vector extension: %v", domain.ErrConnection, err)
	}

	return &PgVectorStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PgVectorStore) Close() error {
	s.pool.Close()
	return nil
}

func validCollection(collection string) error {
	if !collectionNamePattern.MatchString(collection) {
		return fmt.Errorf("%w: invalid collection name %q", domain.ErrConfiguration, collection)
	}
	return nil
}

// EnsureCollection creates the collection table if it doesn't exist and
// verifies the vector dimension when it does.
func (s *PgVectorStore) EnsureCollection(ctx context.Context, collection string, dimensions int) error {
	if err := validCollection(collection); err != nil {
		return err
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id uuid PRIMARY KEY,
		movie_id uuid NOT NULL,
		title text NOT NULL,
		year int NOT NULL,
		genres text[] NOT NULL,
		description text NOT NULL,
		embedding vector(%d) NOT NULL
	)`, collection, dimensions)

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("%w: failed to create table %s: %v", domain.ErrConnection, collection, err)
	}

	var existing int
	err := s.pool.QueryRow(ctx,
		`SELECT atttypmod FROM pg_attribute
		 WHERE attrelid = $1::regclass AND attname = 'embedding'`,
		collection).Scan(&existing)
	if err != nil {
		return fmt.Errorf("%w: failed to inspect table %s: %v", domain.ErrConnection, collection, err)
	}
	if existing > 0 && existing != dimensions {
		return fmt.Errorf("%w: table %s has vector size %d, expected %d",
			domain.ErrConfiguration, collection, existing, dimensions)
	}

	return nil
}

// Upsert inserts or replaces one indexed chunk record.
func (s *PgVectorStore) Upsert(ctx context.Context, collection string, record *domain.IndexedRecord) error {
	if err := validCollection(collection); err != nil {
		return err
	}
	if _, err := uuid.Parse(record.ID); err != nil {
		return fmt.Errorf("%w: invalid record ID: %v", domain.ErrFilterEncoding, err)
	}

	sql := fmt.Sprintf(`INSERT INTO %s (id, movie_id, title, year, genres, description, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			movie_id = EXCLUDED.movie_id,
			title = EXCLUDED.title,
			year = EXCLUDED.year,
			genres = EXCLUDED.genres,
			description = EXCLUDED.description,
			embedding = EXCLUDED.embedding`, collection)

	_, err := s.pool.Exec(ctx, sql,
		record.ID,
		record.Metadata.MovieID,
		record.Metadata.Title,
		record.Metadata.Year,
		record.Metadata.Genres,
		record.Metadata.Description,
		pgvector.NewVector(record.Embedding),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert into %s: %v", domain.ErrConnection, collection, err)
	}

	return nil
}

// buildSearchQuery renders the similarity query for one collection. The
// collection name is interpolated (validated upstream); everything else is
// parameterized. Argument order: query vector, min score, min year, max year,
// then optionally genre, then the limit.
func buildSearchQuery(collection string, filter *domain.QueryFilter, k int) (string, int) {
	var sb strings.Builder
	args := 2 // $1 vector, $2 min score

	sb.WriteString("SELECT movie_id, title, year, genres, description, ")
	sb.WriteString("1 - (embedding <=> $1) AS similarity FROM ")
	sb.WriteString(collection)
	sb.WriteString(" WHERE 1 - (embedding <=> $1) > $2")

	sb.WriteString(" AND year >= $3 AND year <= $4")
	args += 2

	if filter != nil && filter.Genre != "" {
		args++
		fmt.Fprintf(&sb, " AND $%d = ANY(genres)", args)
	}

	args++
	fmt.Fprintf(&sb, " ORDER BY similarity DESC LIMIT $%d", args)

	return sb.String(), args
}

// Search performs a vector similarity search with metadata filters applied in
// a single SQL statement. A failed query is retried once on a fresh
// connection; if the retry fails too, the failure is logged and an empty
// result is returned so one flaky collection cannot sink a fan-out search.
func (s *PgVectorStore) Search(ctx context.Context, collection string, vector []float32, filter *domain.QueryFilter, k int, minScore float32) ([]domain.SearchResult, error) {
	if err := validCollection(collection); err != nil {
		return nil, err
	}

	minYear, maxYear := domain.DefaultMinYear, domain.DefaultMaxYear
	if filter != nil {
		minYear, maxYear = filter.YearRange()
	}

	sql, _ := buildSearchQuery(collection, filter, k)

	queryArgs := []interface{}{pgvector.NewVector(vector), minScore, minYear, maxYear}
	if filter != nil && filter.Genre != "" {
		queryArgs = append(queryArgs, filter.Genre)
	}
	queryArgs = append(queryArgs, k)

	results, err := s.runSearch(ctx, sql, queryArgs)
	if err == nil {
		return results, nil
	}

	logger.CtxWarn(ctx, "Search failed, retrying once: collection=%s, error=%v", collection, err)
	results, err = s.runSearch(ctx, sql, queryArgs)
	if err != nil {
		logger.CtxError(ctx, "Search retry failed, returning empty result: collection=%s, error=%v", collection, err)
		return nil, nil
	}

	return results, nil
}

func (s *PgVectorStore) runSearch(ctx context.Context, sql string, args []interface{}) ([]domain.SearchResult, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query failed: %v", domain.ErrConnection, err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var r domain.SearchResult
		var similarity float64
		if err := rows.Scan(&r.MovieID, &r.Title, &r.Year, &r.Genres, &r.Description, &similarity); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		r.Similarity = float32(similarity)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: row iteration failed: %v", domain.ErrConnection, err)
	}

	return results, nil
}

// Count returns the number of records in the collection.
func (s *PgVectorStore) Count(ctx context.Context, collection string) (uint64, error) {
	if err := validCollection(collection); err != nil {
		return 0, err
	}

	var count int64
	err := s.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", collection)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to count %s: %v", domain.ErrConnection, collection, err)
	}
	return uint64(count), nil
}

// Clear removes all records from the collection.
func (s *PgVectorStore) Clear(ctx context.Context, collection string) error {
	if err := validCollection(collection); err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, fmt.Sprintf("TRUNCATE %s", collection)); err != nil {
		return fmt.Errorf("%w: failed to clear %s: %v", domain.ErrConnection, collection, err)
	}
	return nil
}
