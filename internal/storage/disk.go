package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"studygram/internal/middleware"
)

// DiskStore stores objects as files under a root directory and serves them
// via a static file route mounted at baseURL.
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore creates a DiskStore rooted at dir. The directory is created
// if it does not exist.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return &DiskStore{
		root:    dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// resolve maps a relative object path to an absolute path under root,
// rejecting anything that escapes it.
func (s *DiskStore) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage path %q", path)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *DiskStore) Upload(ctx context.Context, path string, content []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	abs, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write object %s: %w", path, err)
	}
	return path, nil
}

func (s *DiskStore) PublicURL(path string) string {
	return s.baseURL + "/" + strings.TrimPrefix(filepath.ToSlash(path), "/")
}

func (s *DiskStore) Remove(ctx context.Context, paths []string) error {
	var firstErr error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		abs, err := s.resolve(path)
		if err != nil {
			middleware.Logger.WarnContext(ctx, "skipping removal of invalid path", slog.String("path", path))
			continue
		}
		if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to remove object %s: %w", path, err)
			}
		}
	}
	return firstErr
}
