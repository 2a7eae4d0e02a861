package ports

import (
	"io"

	"go.trai.ch/depot/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks

// PackageCache stores unpacked packages, one directory per (name, version).
// All methods take the package cache directory explicitly.
type PackageCache interface {
	// Has reports whether the package is fully present.
	Has(dir string, id domain.PackageID) (bool, error)

	// Stage creates an empty staging directory and returns its path.
	Stage(dir string) (string, error)

	// Commit moves a populated staging directory into place for id.
	Commit(dir, staging string, id domain.PackageID) error

	// Discard removes a staging directory.
	Discard(staging string) error

	// Remove deletes the package directory for id.
	Remove(dir string, id domain.PackageID) error

	// Clear deletes the whole package cache directory.
	Clear(dir string) error
}

// Unpacker verifies a package archive and extracts its contents.
type Unpacker interface {
	// Unpack reads a release archive from r, verifies it and extracts the
	// package contents into dest.
	Unpack(r io.Reader, dest string) error
}
