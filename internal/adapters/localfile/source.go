// Package localfile serves the review CSV from local disk, for development
// and offline runs.
package localfile

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type Source struct{ path string }

func New(path string) *Source { return &Source{path: path} }

// ID is the file's base name; it shows up as file_id_used in debug output.
func (s *Source) ID() string { return filepath.Base(s.path) }

func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	return f, nil
}
