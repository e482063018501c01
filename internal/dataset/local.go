package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
)

// LocalSource reads the dataset from a file on disk.
type LocalSource struct {
	path string
}

// NewLocalSource creates a source for a local CSV file.
func NewLocalSource(path string) *LocalSource {
	return &LocalSource{path: path}
}

// Open implements Source.
func (s *LocalSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	return f, nil
}
