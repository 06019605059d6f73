// Package blob provides the object stores behind core.BlobStore: a local
// filesystem store for development and tests, and a MinIO/S3 store for
// deployments.
package blob

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/eduverse/lms/core"
)

var ErrNotFound = errors.New("object not found")

type localStore struct {
	root string
}

var _ core.BlobStore = (*localStore)(nil) // interface compliance check

// NewLocalStore stores objects as files under root, mirroring key paths.
func NewLocalStore(root string) core.BlobStore {
	return &localStore{root: root}
}

func (s *localStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *localStore) PutObject(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating object dir")
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".blob-*")
	if err != nil {
		return errors.Wrap(err, "creating object file")
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if _, err = io.Copy(f, r); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "writing object")
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "closing object file")
	}
	return errors.Wrap(os.Rename(f.Name(), path), "storing object")
}

func (s *localStore) GetObject(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "opening object")
	}
	return f, nil
}

func (s *localStore) DeleteObject(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "deleting object")
	}
	return nil
}
