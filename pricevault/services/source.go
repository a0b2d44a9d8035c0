package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ellavondegurechaff/pricevault/pricevault/errs"
)

// Source hands out the pipeline's inputs by file name: snapshots and the
// reference dataset.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// FileSource reads inputs from a local directory.
type FileSource struct {
	Dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

// Path is where name lives on disk.
func (s *FileSource) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.Dir, name)
}

func (s *FileSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Path(name)
	f, err := os.Open(path)
	if err != nil {
		return nil, &errs.IOError{Path: path, Err: err}
	}
	return f, nil
}

// LocalPath returns a filesystem path holding name. Local sources are used
// in place; anything else is copied into tmpDir and removed by cleanup.
func LocalPath(ctx context.Context, src Source, name, tmpDir string) (path string, cleanup func(), err error) {
	if fs, ok := src.(*FileSource); ok {
		return fs.Path(name), func() {}, nil
	}

	rc, err := src.Open(ctx, name)
	if err != nil {
		return "", nil, err
	}
	defer rc.Close()

	f, err := os.CreateTemp(tmpDir, "pricevault-*-"+filepath.Base(name))
	if err != nil {
		return "", nil, &errs.IOError{Path: tmpDir, Err: err}
	}
	cleanup = func() { os.Remove(f.Name()) }

	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		cleanup()
		return "", nil, copyErr(name, err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, &errs.IOError{Path: f.Name(), Err: err}
	}
	return f.Name(), cleanup, nil
}

func copyErr(name string, err error) error {
	var ioErr *errs.IOError
	if errors.As(err, &ioErr) {
		return err
	}
	return &errs.IOError{Path: name, Err: fmt.Errorf("failed to copy: %w", err)}
}
