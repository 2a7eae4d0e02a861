package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigNotFound is returned when no depot.yaml exists in the working directory or any parent.
	ErrConfigNotFound = zerr.New("could not find depot.yaml")

	// ErrConfigReadFailed is returned when the project configuration cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the project configuration cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrDuplicateDependency is returned when a package is declared as both a dependency and a dev-dependency.
	ErrDuplicateDependency = zerr.New("package is declared in both dependencies and dev-dependencies")

	// ErrMissingProjectName is returned when depot.yaml does not declare a name.
	ErrMissingProjectName = zerr.New("missing project name")

	// ErrManifestReadFailed is returned when manifest.toml exists but cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest")

	// ErrManifestParseFailed is returned when manifest.toml exists but is not valid.
	ErrManifestParseFailed = zerr.New("failed to parse manifest")

	// ErrManifestWriteFailed is returned when manifest.toml cannot be written.
	ErrManifestWriteFailed = zerr.New("failed to write manifest")

	// ErrLedgerReadFailed is returned when packages.toml exists but cannot be read.
	ErrLedgerReadFailed = zerr.New("failed to read package ledger")

	// ErrLedgerParseFailed is returned when packages.toml exists but is not valid.
	ErrLedgerParseFailed = zerr.New("failed to parse package ledger")

	// ErrLedgerWriteFailed is returned when packages.toml cannot be written.
	ErrLedgerWriteFailed = zerr.New("failed to write package ledger")

	// ErrResolutionFailed is returned when no manifest could be computed for the requirements.
	ErrResolutionFailed = zerr.New("dependency resolution failed")

	// ErrNoSolution is returned when no set of versions satisfies every requirement.
	ErrNoSolution = zerr.New("no versions satisfy the requirements")

	// ErrInvalidRequirement is returned when a requirement cannot be parsed as a version constraint.
	ErrInvalidRequirement = zerr.New("invalid version requirement")

	// ErrInvalidVersion is returned when a registry release carries an unparsable version.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrRegistryRequestFailed is returned when a registry request fails at the transport level or with an unexpected status.
	ErrRegistryRequestFailed = zerr.New("registry request failed")

	// ErrRegistryResponseInvalid is returned when a registry response cannot be decoded.
	ErrRegistryResponseInvalid = zerr.New("invalid registry response")

	// ErrRegistrySignatureInvalid is returned when a registry response fails signature verification.
	ErrRegistrySignatureInvalid = zerr.New("registry response signature verification failed")

	// ErrPackageNotFound is returned when the registry does not know the requested package or release.
	ErrPackageNotFound = zerr.New("package not found in registry")

	// ErrAcquisitionFailed is returned when a package cannot be downloaded, verified or unpacked.
	ErrAcquisitionFailed = zerr.New("failed to acquire package")

	// ErrArchiveInvalid is returned when a package archive is malformed.
	ErrArchiveInvalid = zerr.New("invalid package archive")

	// ErrArchiveChecksumMismatch is returned when a package archive's checksum does not match its contents.
	ErrArchiveChecksumMismatch = zerr.New("package archive checksum mismatch")

	// ErrArchiveSignatureInvalid is returned when a package archive's signature does not verify.
	ErrArchiveSignatureInvalid = zerr.New("package archive signature verification failed")

	// ErrArchiveUnsafePath is returned when an archive entry would be written outside its destination.
	ErrArchiveUnsafePath = zerr.New("archive entry escapes destination")

	// ErrArchiveExtractFailed is returned when archive contents cannot be written to disk.
	ErrArchiveExtractFailed = zerr.New("failed to extract package archive")

	// ErrCacheStageFailed is returned when a staging directory cannot be created in the package cache.
	ErrCacheStageFailed = zerr.New("failed to create staging directory")

	// ErrCacheCommitFailed is returned when a staged package cannot be moved into the package cache.
	ErrCacheCommitFailed = zerr.New("failed to commit package to cache")

	// ErrCacheRemoveFailed is returned when a package cannot be removed from the package cache.
	ErrCacheRemoveFailed = zerr.New("failed to remove package from cache")

	// ErrCacheStatFailed is returned when the package cache cannot be inspected.
	ErrCacheStatFailed = zerr.New("failed to inspect package cache")

	// ErrCleanFailed is returned when clean cannot remove a path.
	ErrCleanFailed = zerr.New("failed to clean")
)
