package ports

import (
	"context"
	"io"

	"go.trai.ch/depot/internal/core/domain"
)

// Registry is the remote package registry.
//
//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type Registry interface {
	// GetPackage returns the verified metadata for a package.
	GetPackage(ctx context.Context, name string) (*domain.PackageMetadata, error)

	// GetArchive opens the release archive for an exact package version.
	// The caller must close the returned reader.
	GetArchive(ctx context.Context, id domain.PackageID) (io.ReadCloser, error)
}
