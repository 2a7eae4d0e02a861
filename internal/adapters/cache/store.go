// Package cache implements the on-disk package cache.
//
// Each package lives in its own directory named name@version. Extraction
// happens in a staging directory that is renamed into place once complete,
// so a package directory is either absent or whole.
package cache

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.PackageCache on an afero filesystem.
type Store struct {
	fs afero.Fs
}

// NewStore creates a Store backed by fsys.
func NewStore(fsys afero.Fs) *Store {
	return &Store{fs: fsys}
}

// Has reports whether the package directory for id exists.
func (s *Store) Has(dir string, id domain.PackageID) (bool, error) {
	path := domain.PackagePath(dir, id)
	info, err := s.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, domain.ErrCacheStatFailed.Error()), "path", path)
	}
	return info.IsDir(), nil
}

// Stage creates a fresh, uniquely named staging directory.
func (s *Store) Stage(dir string) (string, error) {
	path := filepath.Join(domain.StagingPath(dir), uuid.NewString())
	if err := s.fs.MkdirAll(path, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrCacheStageFailed.Error()), "path", path)
	}
	return path, nil
}

// Commit moves staging into place for id. An existing package directory is
// never overwritten; the staging directory is discarded instead.
func (s *Store) Commit(dir, staging string, id domain.PackageID) error {
	target := domain.PackagePath(dir, id)

	exists, err := afero.DirExists(s.fs, target)
	if err != nil {
		return s.commitErr(err, target)
	}
	if exists {
		return s.Discard(staging)
	}

	if err := s.fs.Rename(staging, target); err != nil {
		_ = s.fs.RemoveAll(staging)
		return s.commitErr(err, target)
	}
	return nil
}

// Discard removes a staging directory.
func (s *Store) Discard(staging string) error {
	if err := s.fs.RemoveAll(staging); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheRemoveFailed.Error()), "path", staging)
	}
	return nil
}

// Remove deletes the package directory for id. A missing directory is not an error.
func (s *Store) Remove(dir string, id domain.PackageID) error {
	path := domain.PackagePath(dir, id)
	if err := s.fs.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheRemoveFailed.Error()), "path", path)
	}
	return nil
}

// Clear deletes the whole package cache directory, ledger included.
func (s *Store) Clear(dir string) error {
	if err := s.fs.RemoveAll(dir); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheRemoveFailed.Error()), "path", dir)
	}
	return nil
}

func (s *Store) commitErr(err error, target string) error {
	wrapped := zerr.With(zerr.Wrap(err, domain.ErrCacheCommitFailed.Error()), "path", target)
	return zerr.With(wrapped, "stage", domain.StageCommit)
}
