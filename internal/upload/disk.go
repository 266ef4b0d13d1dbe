package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore keeps uploads on the local filesystem under a root directory.
// Saved files are reachable through the server's /uploads/ static route.
type DiskStore struct {
	root string
}

var _ Store = (*DiskStore)(nil)

// NewDiskStore creates the root directory if needed.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("upload: creating upload directory %s: %w", root, err)
	}
	return &DiskStore{root: root}, nil
}

// Root returns the directory uploads are written to, for the static file route.
func (s *DiskStore) Root() string {
	return s.root
}

func (s *DiskStore) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("upload: creating directory for %s: %w", key, err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("upload: creating file %s: %w", key, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("upload: writing file %s: %w", key, err)
	}

	return "/uploads/" + key, nil
}

func (s *DiskStore) Delete(ctx context.Context, key string) error {
	dst, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("upload: removing file %s: %w", key, err)
	}
	return nil
}

// resolve joins the key onto the root and rejects anything that escapes it.
func (s *DiskStore) resolve(key string) (string, error) {
	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if !strings.HasPrefix(dst, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("upload: invalid key %q", key)
	}
	return dst, nil
}
