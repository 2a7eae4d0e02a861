package domain

import (
	"maps"
	"slices"
	"strings"
)

// Manifest is the durable record of a resolution: the requirements that
// produced it and the exact version chosen for every package, direct and transitive.
type Manifest struct {
	// Requirements is a snapshot of the requirement set used for the resolution.
	Requirements RequirementSet

	// Packages maps every resolved package name to its exact version.
	Packages map[string]string
}

// NewManifest creates a Manifest, copying both maps so later edits to the inputs do not leak in.
func NewManifest(requirements RequirementSet, packages map[string]string) *Manifest {
	m := &Manifest{
		Requirements: make(RequirementSet, len(requirements)),
		Packages:     make(map[string]string, len(packages)),
	}
	maps.Copy(m.Requirements, requirements)
	maps.Copy(m.Packages, packages)
	return m
}

// PackageIDs returns the resolved packages sorted by name.
func (m *Manifest) PackageIDs() []PackageID {
	return idsFrom(m.Packages)
}

// Ledger records which package versions are currently unpacked in the package cache.
type Ledger struct {
	Packages map[string]string
}

// LedgerFromManifest builds the ledger that describes a fully acquired manifest.
func LedgerFromManifest(m *Manifest) *Ledger {
	l := &Ledger{Packages: make(map[string]string, len(m.Packages))}
	maps.Copy(l.Packages, m.Packages)
	return l
}

// PackageIDs returns the recorded packages sorted by name.
func (l *Ledger) PackageIDs() []PackageID {
	return idsFrom(l.Packages)
}

// StalePackages returns every (name, version) recorded in the ledger whose
// version differs from the manifest's, including names the manifest no longer has.
// A nil ledger has nothing stale.
func StalePackages(ledger *Ledger, manifest *Manifest) []PackageID {
	if ledger == nil {
		return nil
	}

	var wanted map[string]string
	if manifest != nil {
		wanted = manifest.Packages
	}

	var stale []PackageID
	for _, id := range ledger.PackageIDs() {
		if v, ok := wanted[id.Name]; ok && v == id.Version {
			continue
		}
		stale = append(stale, id)
	}
	return stale
}

func idsFrom(packages map[string]string) []PackageID {
	ids := make([]PackageID, 0, len(packages))
	for name, version := range packages {
		ids = append(ids, PackageID{Name: name, Version: version})
	}
	slices.SortFunc(ids, func(a, b PackageID) int {
		return strings.Compare(a.Name, b.Name)
	})
	return ids
}
