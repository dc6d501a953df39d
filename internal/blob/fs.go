package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/printscript/snippet-manager/internal/apperror"
)

var _ Store = (*FSStore)(nil)

// FSStore keeps one file per key under a root directory. It is the
// zero-infrastructure default backend, suitable for development and
// single-server deployments.
type FSStore struct {
	root string
}

// NewFSStore creates the root directory if needed.
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob: creating root directory %s: %w", root, err)
	}
	return &FSStore{root: root}, nil
}

// path validates the key and resolves it inside the root. Keys are
// snippet ids (xid strings), so anything with a path separator is a bug
// or an attack, never a valid key.
func (s *FSStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("blob: invalid key %q", key)
	}
	return filepath.Join(s.root, key), nil
}

// Put writes the content for key, overwriting any previous object.
// The write goes to a temp file first and is renamed into place, so a
// reader never observes a half-written body.
func (s *FSStore) Put(ctx context.Context, key string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dst, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.root, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("blob: creating temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("blob: writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("blob: closing %s: %w", key, err)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("blob: publishing %s: %w", key, err)
	}

	return nil
}

// Get returns the content stored under key.
// Returns apperror.ErrNotFound if no object exists.
func (s *FSStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := s.path(key)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperror.NotFound("code body", key)
		}
		return nil, fmt.Errorf("blob: reading %s: %w", key, err)
	}

	return content, nil
}

// Delete removes the object under key. Deleting a missing key is not an
// error.
func (s *FSStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dst, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("blob: deleting %s: %w", key, err)
	}

	return nil
}
