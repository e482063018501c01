// Package dataset loads the movie catalogue from CSV. The file has four
// columns: title, genres, year, description. Genres come pipe- or
// comma-separated and are normalized to lowercase on read.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/logger"
)

// Source yields the raw dataset bytes. Implementations exist for local
// files and S3-compatible object storage.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Load reads the full dataset from the source. Rows with a missing title or
// description are dropped with a warning; a malformed year becomes zero.
func Load(ctx context.Context, src Source) ([]domain.MovieRecord, error) {
	reader, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer reader.Close()

	return Parse(ctx, reader)
}

// Parse reads CSV rows into movie records.
func Parse(ctx context.Context, r io.Reader) ([]domain.MovieRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}
	cols := columnIndex(header)
	for _, required := range []string{"title", "genres", "year", "description"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("dataset is missing column %q", required)
		}
	}

	var records []domain.MovieRecord
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.CtxWarn(ctx, "Skipping malformed row: line=%d, error=%v", line, err)
			continue
		}

		record := domain.MovieRecord{
			Title:       strings.TrimSpace(field(row, cols["title"])),
			Genres:      parseGenres(field(row, cols["genres"])),
			Year:        parseYear(field(row, cols["year"])),
			Description: strings.TrimSpace(field(row, cols["description"])),
		}
		if record.Title == "" || record.Description == "" {
			logger.CtxWarn(ctx, "Skipping row without title or description: line=%d", line)
			continue
		}

		records = append(records, record)
	}

	return records, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseGenres splits a genre cell on pipes or commas and lowercases each
// entry. Bracketed list syntax from dataset exports is stripped.
func parseGenres(raw string) []string {
	raw = strings.Trim(strings.TrimSpace(raw), "[]")

	sep := "|"
	if !strings.Contains(raw, "|") {
		sep = ","
	}

	var genres []string
	for _, part := range strings.Split(raw, sep) {
		genre := strings.ToLower(strings.TrimSpace(part))
		genre = strings.Trim(genre, `'"`)
		if genre != "" {
			genres = append(genres, genre)
		}
	}
	return genres
}

func parseYear(raw string) int {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || year < 0 {
		return 0
	}
	return year
}
