package service

import (
	"context"
	"strings"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/llm"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/logger"
)

// Generator is the slice of the inference client metadata extraction needs.
type Generator interface {
	Generate(ctx context.Context, prompt string, params llm.SamplingParams) (string, error)
}

// MetadataExtractor turns a free-text query into a structured filter by
// prompting the language model and parsing whatever comes back.
// Extraction never fails the caller: any generation or parse problem is
// logged and degrades to an empty filter, so search proceeds unfiltered.
type MetadataExtractor struct {
	generator Generator
	genres    []string
	genreSet  map[string]struct{}
}

// NewMetadataExtractor creates an extractor restricted to the given genre
// vocabulary.
func NewMetadataExtractor(generator Generator, genres []string) *MetadataExtractor {
	genreSet := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		genreSet[strings.ToLower(g)] = struct{}{}
	}
	return &MetadataExtractor{
		generator: generator,
		genres:    genres,
		genreSet:  genreSet,
	}
}

// Extract prompts the model and parses the returned dictionary into a filter.
func (e *MetadataExtractor) Extract(ctx context.Context, query string) domain.QueryFilter {
	prompt := llm.BuildMetadataPrompt(query, e.genres)

	out, err := e.generator.Generate(ctx, prompt, llm.MetadataParams())
	if err != nil {
		logger.CtxWarn(ctx, "Metadata extraction failed, searching unfiltered: error=%v", err)
		return domain.EmptyFilter()
	}

	filter := e.parseFilter(out)
	logger.CtxDebug(ctx, "Extracted metadata: title=%q, genre=%q, min_year=%d, max_year=%d",
		filter.Title, filter.Genre, filter.MinYear, filter.MaxYear)
	return filter
}

// parseFilter recovers a filter from loose model output. The model is asked
// for a single-quoted dictionary but routinely doubles braces, wraps the
// dict in prose, or invents genres; none of that may fail extraction.
func (e *MetadataExtractor) parseFilter(out string) domain.QueryFilter {
	fields := parseLooseDict(out)
	if fields == nil {
		return domain.EmptyFilter()
	}

	filter := domain.QueryFilter{
		Title:   strings.TrimSpace(fields["title"]),
		Genre:   e.validGenre(fields["genre"]),
		MinYear: domain.CoerceYear(fields["min_year"], domain.DefaultMinYear),
		MaxYear: domain.CoerceYear(fields["max_year"], domain.DefaultMaxYear),
	}
	if filter.MaxYear == 0 {
		filter.MaxYear = domain.DefaultMaxYear
	}
	return filter
}

// validGenre keeps a genre only when it belongs to the vocabulary. The
// model occasionally returns several genres at once; the first valid one
// wins.
func (e *MetadataExtractor) validGenre(raw string) string {
	for _, candidate := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '/' || r == '|'
	}) {
		genre := strings.ToLower(strings.TrimSpace(candidate))
		if _, ok := e.genreSet[genre]; ok {
			return genre
		}
	}
	return ""
}

// parseLooseDict extracts key/value pairs from a Python-style dict literal
// embedded in model output. Doubled braces are collapsed first, then the
// text is sliced from the first '{' to the first '}' after it. Returns nil
// when no dict-shaped region exists.
func parseLooseDict(out string) map[string]string {
	out = strings.ReplaceAll(out, "{{", "{")
	out = strings.ReplaceAll(out, "}}", "}")

	start := strings.Index(out, "{")
	if start == -1 {
		return nil
	}
	end := strings.Index(out[start:], "}")
	if end == -1 {
		return nil
	}
	body := out[start+1 : start+end]

	fields := make(map[string]string)
	for _, pair := range splitQuoteAware(body, ',') {
		kv := splitQuoteAware(pair, ':')
		if len(kv) != 2 {
			continue
		}
		key := unquote(kv[0])
		value := unquote(kv[1])
		if key != "" {
			fields[key] = value
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// splitQuoteAware splits on sep outside of single or double quotes.
func splitQuoteAware(s string, sep rune) []string {
	var parts []string
	var current strings.Builder
	var quote rune

	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			current.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			current.WriteRune(r)
		case r == sep:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	parts = append(parts, current.String())
	return parts
}

// unquote trims whitespace and one layer of matching quotes.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			s = s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}
