package chunker

import (
	"context"
	"strings"
)

// RecursiveSplitter tries a prioritized list of separators (paragraph,
// line, sentence, word) so that segments avoid breaking mid-unit whenever a
// coarser boundary fits the size envelope.
type RecursiveSplitter struct {
	separators []string
	maxSize    int
	overlap    int
}

// Split implements Splitter. It never fails.
func (s *RecursiveSplitter) Split(_ context.Context, text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	return s.split(text, s.separators), nil
}

func (s *RecursiveSplitter) split(text string, separators []string) []string {
	if len(text) <= s.maxSize {
		return []string{text}
	}

	// Pick the coarsest separator actually present in the text.
	sep := ""
	var finer []string
	for i, candidate := range separators {
		if strings.Contains(text, candidate) {
			sep = candidate
			finer = separators[i+1:]
			break
		}
	}
	if sep == "" {
		// Atomic unit with no split point left: keep it whole.
		return []string{text}
	}

	parts := strings.Split(text, sep)

	var chunks []string
	var pending []string
	flush := func() {
		if len(pending) > 0 {
			chunks = append(chunks, mergeSplits(pending, sep, s.maxSize, s.overlap)...)
			pending = nil
		}
	}

	for _, part := range parts {
		if len(part) > s.maxSize {
			// Oversize parts recurse on finer separators; their chunks are
			// emitted as-is so this level's separator is never spliced into
			// text it did not delimit.
			flush()
			chunks = append(chunks, s.split(part, finer)...)
		} else {
			pending = append(pending, part)
		}
	}
	flush()

	return chunks
}
