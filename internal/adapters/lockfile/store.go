// Package lockfile persists the manifest and the package ledger as TOML.
package lockfile

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/zerr"
)

// Header is written at the top of manifest.toml.
const Header = "# This file was generated by depot\n# You typically do not need to edit this file manually\n\n"

type manifestFile struct {
	Requirements map[string]string `toml:"requirements"`
	Packages     map[string]string `toml:"packages"`
}

type ledgerFile struct {
	Packages map[string]string `toml:"packages"`
}

// Store implements ports.LockfileStore on top of an afero filesystem.
type Store struct {
	fs afero.Fs
}

// NewStore creates a Store backed by fsys.
func NewStore(fsys afero.Fs) *Store {
	return &Store{fs: fsys}
}

// ReadManifest reads manifest.toml from root. A missing file returns nil, nil.
func (s *Store) ReadManifest(root string) (*domain.Manifest, error) {
	path := domain.ManifestPath(root)

	var file manifestFile
	found, err := s.decode(path, &file, domain.ErrManifestReadFailed, domain.ErrManifestParseFailed,
		"requirements", "packages")
	if err != nil || !found {
		return nil, err
	}

	return domain.NewManifest(file.Requirements, file.Packages), nil
}

// WriteManifest replaces manifest.toml in root.
func (s *Store) WriteManifest(root string, manifest *domain.Manifest) error {
	file := manifestFile{
		Requirements: nonNil(manifest.Requirements),
		Packages:     nonNil(manifest.Packages),
	}
	return s.encode(domain.ManifestPath(root), Header, file, domain.ErrManifestWriteFailed)
}

// RemoveManifest deletes manifest.toml in root. A missing file is not an error.
func (s *Store) RemoveManifest(root string) error {
	path := domain.ManifestPath(root)
	if err := s.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "path", path)
	}
	return nil
}

// ReadLedger reads packages.toml from the package cache directory. A missing file returns nil, nil.
func (s *Store) ReadLedger(packagesDir string) (*domain.Ledger, error) {
	path := domain.LedgerPath(packagesDir)

	var file ledgerFile
	found, err := s.decode(path, &file, domain.ErrLedgerReadFailed, domain.ErrLedgerParseFailed, "packages")
	if err != nil || !found {
		return nil, err
	}

	return &domain.Ledger{Packages: nonNil(file.Packages)}, nil
}

// WriteLedger replaces packages.toml in the package cache directory.
func (s *Store) WriteLedger(packagesDir string, ledger *domain.Ledger) error {
	file := ledgerFile{Packages: nonNil(ledger.Packages)}
	return s.encode(domain.LedgerPath(packagesDir), "", file, domain.ErrLedgerWriteFailed)
}

// decode reads path into target. Each key in tables must be a TOML table when present.
func (s *Store) decode(path string, target any, readErr, parseErr error, tables ...string) (bool, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		wrapped := zerr.With(zerr.Wrap(err, readErr.Error()), "path", path)
		return false, zerr.With(wrapped, "action", "read")
	}

	md, err := toml.Decode(string(data), target)
	if err != nil {
		wrapped := zerr.With(zerr.Wrap(err, parseErr.Error()), "path", path)
		return false, zerr.With(wrapped, "action", "parse")
	}

	for _, key := range tables {
		if typ := md.Type(key); typ != "" && typ != "Hash" {
			wrapped := zerr.With(zerr.With(parseErr, "path", path), "action", "parse")
			return false, zerr.With(zerr.With(wrapped, "key", key), "type", typ)
		}
	}

	return true, nil
}

func (s *Store) encode(path, header string, value any, writeErr error) error {
	var buf bytes.Buffer
	buf.WriteString(header)
	if err := toml.NewEncoder(&buf).Encode(value); err != nil {
		return zerr.With(zerr.Wrap(err, writeErr.Error()), "path", path)
	}

	if err := s.atomicWriteFile(path, buf.Bytes()); err != nil {
		wrapped := zerr.With(zerr.Wrap(err, writeErr.Error()), "path", path)
		return zerr.With(wrapped, "action", "write")
	}
	return nil
}

// atomicWriteFile writes data to a temp file in the target directory and renames it into place.
func (s *Store) atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := afero.TempFile(s.fs, dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	committed := false
	defer func() {
		if !committed {
			_ = s.fs.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := s.fs.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		return err
	}

	committed = true
	return nil
}

func nonNil[M ~map[string]string](m M) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return map[string]string(m)
}
