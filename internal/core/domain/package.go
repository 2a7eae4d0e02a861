package domain

import (
	"maps"
	"slices"
)

// PackageID identifies one exact release of a package.
type PackageID struct {
	// Name is the package name as published in the registry (e.g., "gleam_stdlib").
	Name string

	// Version is the exact resolved version (e.g., "0.34.0").
	Version string
}

// String returns the "name@version" form used for cache keys and log output.
func (p PackageID) String() string {
	return p.Name + "@" + p.Version
}

// RequirementSet maps package names to the version requirement declared for them.
type RequirementSet map[string]string

// Equal reports whether both sets contain the same names with the same requirement per name.
func (r RequirementSet) Equal(other RequirementSet) bool {
	return maps.Equal(r, other)
}

// Names returns the package names in sorted order.
func (r RequirementSet) Names() []string {
	return slices.Sorted(maps.Keys(r))
}

// Release is a single published version of a package together with the
// requirements it declares on other packages.
type Release struct {
	Version      string
	Requirements RequirementSet
}

// PackageMetadata is the registry's description of a package.
type PackageMetadata struct {
	Name     string
	Releases []Release
}
