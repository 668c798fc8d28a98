package source

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/palmares/internal/domain/dataset"
)

// FileLoader reads the dataset from disk.
type FileLoader struct {
	path     string
	maxBytes int64
}

// newFileLoader builds a loader for path.
func newFileLoader(path string, s settings) *FileLoader {
	return &FileLoader{path: path, maxBytes: s.maxBytes}
}

// Location implements Loader.
func (l *FileLoader) Location() string { return l.path }

// Path is the file read by the loader.
func (l *FileLoader) Path() string { return l.path }

// Load implements Loader.
func (l *FileLoader) Load(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", dataset.ErrUnavailable, err)
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", dataset.ErrUnavailable, err)
	}
	defer func() { _ = f.Close() }()
	return dataset.Decode(io.LimitReader(f, l.maxBytes))
}
