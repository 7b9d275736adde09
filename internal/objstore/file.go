package objstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// fileStore keeps attachments on local disk. SignedURL returns a plain
// file path; useful for single-node deployments and tests.
type fileStore struct {
	base string
}

func openFile(c Config) (Store, error) {
	if err := os.MkdirAll(c.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure base dir: %w", err)
	}
	return &fileStore{base: c.BaseDir}, nil
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.base, filepath.FromSlash(sanitizeKey(key)))
}

func (s *fileStore) Put(_ context.Context, key string, r io.Reader, _ string) error {
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *fileStore) SignedURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "file://" + s.path(key), nil
}

func (s *fileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
