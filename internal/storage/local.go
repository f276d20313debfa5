package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalBackend stores objects on the local filesystem under a base directory.
type LocalBackend struct {
	baseDir string
}

// NewLocalBackend ensures the base directory exists and returns a backend
// rooted at it.
func NewLocalBackend(baseDir string) (*LocalBackend, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &LocalBackend{baseDir: baseDir}, nil
}

// BaseDir returns the root directory served under /uploads.
func (b *LocalBackend) BaseDir() string {
	return b.baseDir
}

// Put streams an object to disk. If the copy fails partway the partial file
// is removed before returning.
func (b *LocalBackend) Put(ctx context.Context, subfolder, name string, r io.Reader, _ string) error {
	dir := filepath.Join(b.baseDir, subfolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	dst := filepath.Join(dir, name)
	f, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}

// Delete removes an object. A missing file is not an error.
func (b *LocalBackend) Delete(ctx context.Context, subfolder, name string) error {
	err := os.Remove(filepath.Join(b.baseDir, subfolder, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
