package domain

import "path/filepath"

const (
	// ProjectFileName is the name of the project configuration file.
	ProjectFileName = "depot.yaml"

	// ManifestFileName is the name of the resolved manifest at the project root.
	ManifestFileName = "manifest.toml"

	// LedgerFileName is the name of the ledger inside the package cache directory.
	LedgerFileName = "packages.toml"

	// BuildDirName is the name of the build output directory.
	BuildDirName = "build"

	// PackagesDirName is the name of the package cache directory inside the build directory.
	PackagesDirName = "packages"

	// StagingDirName is the directory inside the package cache that holds in-flight extractions.
	StagingDirName = ".staging"

	// PackagesDirEnv overrides the package cache directory.
	PackagesDirEnv = "DEPOT_PACKAGES_DIR"

	// RegistryURLEnv overrides the registry base URL.
	RegistryURLEnv = "DEPOT_REGISTRY_URL"

	// DefaultRegistryURL is the registry used when RegistryURLEnv is unset.
	DefaultRegistryURL = "https://registry.depot.dev/api"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// ManifestPath returns the manifest location for a project root.
func ManifestPath(root string) string {
	return filepath.Join(root, ManifestFileName)
}

// DefaultPackagesPath returns the package cache location for a project root.
// It joins build and packages.
func DefaultPackagesPath(root string) string {
	return filepath.Join(root, BuildDirName, PackagesDirName)
}

// LedgerPath returns the ledger location inside a package cache directory.
func LedgerPath(packagesDir string) string {
	return filepath.Join(packagesDir, LedgerFileName)
}

// PackagePath returns the directory a package is unpacked into.
func PackagePath(packagesDir string, id PackageID) string {
	return filepath.Join(packagesDir, id.String())
}

// StagingPath returns the staging area inside a package cache directory.
func StagingPath(packagesDir string) string {
	return filepath.Join(packagesDir, StagingDirName)
}
