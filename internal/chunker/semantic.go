package chunker

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
)

// SemanticSplitter groups sentences into segments by embedding-similarity
// breakpoints: a new segment starts where the cosine distance between
// consecutive sentences exceeds the configured percentile of all distances.
// Segment size follows meaning rather than a fixed length.
type SemanticSplitter struct {
	embedder   Embedder
	percentile float64
}

// Split implements Splitter. It embeds every sentence, so it shares the
// embedding server's failure modes.
func (s *SemanticSplitter) Split(ctx context.Context, text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}

	sentences := splitSentences(text)
	if len(sentences) <= 1 {
		return []string{text}, nil
	}

	vectors, err := s.embedder.EmbedBatch(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("failed to embed sentences: %w", err)
	}
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("expected %d sentence embeddings, got %d", len(sentences), len(vectors))
	}

	distances := make([]float64, len(sentences)-1)
	for i := 0; i < len(sentences)-1; i++ {
		distances[i] = 1 - cosineSimilarity(vectors[i], vectors[i+1])
	}
	cutoff := percentile(distances, s.percentile)

	var chunks []string
	var group []string
	for i, sentence := range sentences {
		group = append(group, sentence)
		if i < len(distances) && distances[i] > cutoff {
			chunks = append(chunks, strings.Join(group, " "))
			group = nil
		}
	}
	if len(group) > 0 {
		chunks = append(chunks, strings.Join(group, " "))
	}

	return chunks, nil
}

// splitSentences breaks text on sentence-terminating punctuation followed by
// whitespace. Terminators stay attached to their sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			atEnd := i == len(runes)-1
			if atEnd || runes[i+1] == ' ' || runes[i+1] == '\n' {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// percentile returns the p-th percentile of values using nearest-rank.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}
