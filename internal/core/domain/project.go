package domain

import (
	"maps"

	"go.trai.ch/zerr"
)

// Project is the parsed project configuration (depot.yaml).
type Project struct {
	Name            string
	Version         string
	Dependencies    RequirementSet
	DevDependencies RequirementSet
}

// AllDependencies returns the union of regular and development dependencies.
// A name declared in both is rejected.
func (p *Project) AllDependencies() (RequirementSet, error) {
	all := make(RequirementSet, len(p.Dependencies)+len(p.DevDependencies))
	maps.Copy(all, p.Dependencies)

	for _, name := range p.DevDependencies.Names() {
		if _, dup := all[name]; dup {
			return nil, zerr.With(ErrDuplicateDependency, "package", name)
		}
		all[name] = p.DevDependencies[name]
	}

	return all, nil
}
