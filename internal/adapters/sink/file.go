package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSink writes documents into a local directory.
type FileSink struct {
	dir  string
	mode os.FileMode
}

// DefaultFileMode keeps published documents readable by a static web server.
const DefaultFileMode os.FileMode = 0o644

// NewFileSink returns a sink rooted at dir, which is created if missing.
func NewFileSink(dir string) (*FileSink, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWrite, dir, err)
	}
	return &FileSink{dir: dir, mode: DefaultFileMode}, nil
}

// Name implements ResultSink.
func (s *FileSink) Name() string { return "file" }

// Write stores v as dir/name. The file is replaced atomically so readers
// never see a half-written document.
func (s *FileSink) Write(_ context.Context, name string, v any) error {
	body, err := Encode(v)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(name)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(s.mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
