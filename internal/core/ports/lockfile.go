package ports

import "go.trai.ch/depot/internal/core/domain"

// LockfileStore persists the manifest and the package ledger.
//
//go:generate go run go.uber.org/mock/mockgen -source=lockfile.go -destination=mocks/mock_lockfile.go -package=mocks
type LockfileStore interface {
	// ReadManifest reads the manifest at the project root.
	// Returns nil, nil if no manifest exists.
	ReadManifest(root string) (*domain.Manifest, error)

	// WriteManifest replaces the manifest at the project root.
	WriteManifest(root string, manifest *domain.Manifest) error

	// RemoveManifest deletes the manifest at the project root, if any.
	RemoveManifest(root string) error

	// ReadLedger reads the ledger inside the package cache directory.
	// Returns nil, nil if no ledger exists.
	ReadLedger(packagesDir string) (*domain.Ledger, error)

	// WriteLedger replaces the ledger inside the package cache directory.
	WriteLedger(packagesDir string, ledger *domain.Ledger) error
}
