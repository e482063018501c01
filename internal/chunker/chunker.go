// Package chunker splits long movie descriptions into bounded, overlapping
// segments for embedding. Three strategies are supported: fixed-size packing
// on newline boundaries, recursive splitting over a separator hierarchy, and
// semantic grouping on embedding-similarity breakpoints.
package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
)

// Default chunk envelope: segments are at most MaxSize units long and share
// Overlap units with their neighbor to preserve boundary context.
const (
	DefaultMaxSize = 1024
	DefaultOverlap = 20
)

// Embedder is the minimal embedding capability the semantic splitter needs.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Splitter splits text into segments. Every implementation guarantees that
// segments cover the input and that no segment exceeds the configured max
// size, except when a single atomic unit cannot be split further; that unit
// is kept whole.
type Splitter interface {
	Split(ctx context.Context, text string) ([]string, error)
}

// New builds the splitter for a chunking strategy. The semantic strategy
// requires an embedder; the others ignore it.
func New(strategy string, maxSize, overlap int, embedder Embedder) (Splitter, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if overlap < 0 || overlap >= maxSize {
		overlap = DefaultOverlap
	}

	switch strategy {
	case domain.StrategyFixedSize:
		return &FixedSizeSplitter{separator: "\n", maxSize: maxSize, overlap: overlap}, nil
	case domain.StrategyRecursive:
		return &RecursiveSplitter{
			separators: []string{"\n\n", "\n", ". ", " "},
			maxSize:    maxSize,
			overlap:    overlap,
		}, nil
	case domain.StrategySemantic:
		if embedder == nil {
			return nil, fmt.Errorf("%w: semantic splitter requires an embedder", domain.ErrConfiguration)
		}
		return &SemanticSplitter{embedder: embedder, percentile: 95}, nil
	default:
		return nil, fmt.Errorf("%w: unknown chunking strategy %q", domain.ErrConfiguration, strategy)
	}
}

// mergeSplits packs separator-delimited parts into chunks of at most maxSize
// units, carrying over up to overlap units from the tail of the previous
// chunk. A single part longer than maxSize becomes its own chunk: atomic
// units are never broken here.
func mergeSplits(parts []string, sep string, maxSize, overlap int) []string {
	sepLen := len(sep)

	var chunks []string
	var current []string
	total := 0

	for _, part := range parts {
		partLen := len(part)

		if len(current) > 0 && total+partLen+sepLen > maxSize {
			chunks = append(chunks, strings.Join(current, sep))

			// Drop parts from the front until the retained tail fits the
			// overlap budget and leaves room for the incoming part.
			for len(current) > 0 && (total > overlap || total+partLen+sepLen > maxSize) {
				total -= len(current[0])
				if len(current) > 1 {
					total -= sepLen
				}
				current = current[1:]
			}
		}

		if len(current) > 0 {
			total += sepLen
		}
		current = append(current, part)
		total += partLen
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, sep))
	}

	return chunks
}
