package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mesh-intelligence/djirun/pkg/types"
)

// ErrEmit marks a failure to deliver a finished artifact.
var ErrEmit = errors.New("emit failed")

// Sink receives finished artifacts. Emit returns where the artifact went.
type Sink interface {
	Emit(ctx context.Context, art *types.OutputArtifact) (string, error)
}

// DirSink writes each artifact into Dir under its own filename. A file left
// by an earlier run is replaced atomically. Within one DirSink a repeated
// name gets a numeric suffix ("100MEDIA.csv", "100MEDIA-2.csv", ...) so no
// artifact of the same batch is lost. A DirSink must not be copied after
// first use.
type DirSink struct {
	Dir string

	mu    sync.Mutex
	taken map[string]bool
}

// Emit writes art to Dir.
func (s *DirSink) Emit(_ context.Context, art *types.OutputArtifact) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	dst := filepath.Join(s.Dir, s.reserve(art.Filename))
	tmp, err := os.CreateTemp(s.Dir, ".djirun-*.csv")
	if err != nil {
		return "", fmt.Errorf("create temp output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(art.Content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close output: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("rename output: %w", err)
	}
	return dst, nil
}

// reserve returns the first unused name for filename in this sink and marks
// it used. Directory components are dropped.
func (s *DirSink) reserve(filename string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.taken == nil {
		s.taken = make(map[string]bool)
	}
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	name := base
	for n := 2; s.taken[name]; n++ {
		name = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}
	s.taken[name] = true
	return name
}

// WriterSink writes artifact content to W, one artifact after another,
// separated by a newline.
type WriterSink struct {
	W io.Writer

	n int
}

// Emit writes art to W.
func (s *WriterSink) Emit(_ context.Context, art *types.OutputArtifact) (string, error) {
	if s.n > 0 {
		if _, err := io.WriteString(s.W, "\n"); err != nil {
			return "", fmt.Errorf("write output: %w", err)
		}
	}
	if _, err := s.W.Write(art.Content); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	s.n++
	return "-", nil
}
