package chunker

import (
	"context"
	"strings"
)

// FixedSizeSplitter splits text on a single separator and packs the pieces
// into chunks of at most maxSize units with overlap carry-over.
type FixedSizeSplitter struct {
	separator string
	maxSize   int
	overlap   int
}

// Split implements Splitter. It never fails.
func (s *FixedSizeSplitter) Split(_ context.Context, text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	if len(text) <= s.maxSize {
		return []string{text}, nil
	}

	parts := strings.Split(text, s.separator)
	return mergeSplits(parts, s.separator, s.maxSize, s.overlap), nil
}
