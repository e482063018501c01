package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
)

func TestNewUnknownStrategy(t *testing.T) {
	_, err := New("token-splitter", 0, 0, nil)
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestNewSemanticRequiresEmbedder(t *testing.T) {
	_, err := New(domain.StrategySemantic, 0, 0, nil)
	if err == nil {
		t.Fatal("expected error when semantic splitter has no embedder")
	}
}

func TestFixedSizeSplitter(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		maxSize int
		overlap int
	}{
		{
			name:    "short text single chunk",
			text:    "a short description",
			maxSize: 100,
			overlap: 10,
		},
		{
			name:    "multi line packing",
			text:    strings.Repeat("the plot thickens with every scene\n", 20),
			maxSize: 120,
			overlap: 20,
		},
		{
			name:    "long single line kept whole",
			text:    strings.Repeat("x", 300) + "\n" + "short tail",
			maxSize: 100,
			overlap: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(domain.StrategyFixedSize, tt.maxSize, tt.overlap, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			chunks, err := s.Split(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertChunksCover(t, tt.text, chunks, tt.maxSize)
		})
	}
}

func TestRecursiveSplitter(t *testing.T) {
	paragraph := "The heist begins at dawn. The crew splits into pairs. Nothing goes to plan."
	text := strings.Repeat(paragraph+"\n\n", 10)

	s, err := New(domain.StrategyRecursive, 100, 20, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	chunks, err := s.Split(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertChunksCover(t, text, chunks, 100)
}

func TestRecursiveSplitterUnsplittableUnit(t *testing.T) {
	// A run with no separators at all cannot be split further.
	text := strings.Repeat("a", 500)

	s, err := New(domain.StrategyRecursive, 100, 10, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	chunks, err := s.Split(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) != 1 || chunks[0] != text {
		t.Errorf("expected unsplittable text kept whole, got %d chunks", len(chunks))
	}
}

func TestSemanticSplitter(t *testing.T) {
	// Two topical clusters: the fake embedder maps sentences starting with
	// "Space" to one region and everything else to another, so the splitter
	// should break between the clusters.
	text := "Space travel is dangerous. Space suits protect the crew. The farm was quiet. The harvest came late."

	embedder := &fakeEmbedder{}
	s, err := New(domain.StrategySemantic, 0, 0, embedder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks, err := s.Split(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) < 2 {
		t.Fatalf("expected a semantic breakpoint, got %d chunks: %v", len(chunks), chunks)
	}
	if !strings.Contains(chunks[0], "Space travel") {
		t.Errorf("first chunk should contain the space cluster, got %q", chunks[0])
	}
	last := chunks[len(chunks)-1]
	if !strings.Contains(last, "harvest") {
		t.Errorf("last chunk should contain the farm cluster, got %q", last)
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("One sentence. Another one! A third? Trailing tail")
	want := []string{"One sentence.", "Another one!", "A third?", "Trailing tail"}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// assertChunksCover verifies the chunking guarantees: every chunk is a
// substring of the original, consecutive chunks advance through the text
// without gaps, and no chunk exceeds maxSize unless it is a single
// unsplittable unit (no separator inside).
func assertChunksCover(t *testing.T, text string, chunks []string, maxSize int) {
	t.Helper()

	if len(chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}

	pos := 0
	for i, chunk := range chunks {
		idx := strings.Index(text[pos:], chunk)
		if idx == -1 {
			// Overlap carry means a chunk can start before the previous
			// chunk's end; search from the beginning as well.
			idx = strings.Index(text, chunk)
			if idx == -1 {
				t.Fatalf("chunk %d is not a substring of the input: %q", i, chunk)
			}
			pos = idx
		} else {
			pos += idx
		}

		if len(chunk) > maxSize && strings.ContainsAny(chunk, "\n ") {
			t.Errorf("chunk %d has length %d > max %d and was splittable", i, len(chunk), maxSize)
		}
		pos += 1 // allow the next chunk to start within this one (overlap)
	}

	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(strings.TrimSpace(text), strings.TrimSpace(last)) {
		t.Error("last chunk does not reach the end of the input")
	}
}

type fakeEmbedder struct{}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if strings.HasPrefix(text, "Space") {
			vectors[i] = []float32{1, 0, 0}
		} else {
			vectors[i] = []float32{0, 1, 0}
		}
	}
	return vectors, nil
}
