// Package solver picks one version per package such that every requirement
// in the dependency graph holds.
//
// The search is a depth-first backtracking walk: packages are decided in name
// order, candidates are tried highest version first, and a choice is undone as
// soon as it contradicts a version already selected.
package solver

import (
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
	"go.trai.ch/zerr"
)

const rootParent = "root"

// Solver implements ports.Solver. It keeps no state between calls.
type Solver struct{}

// New creates a Solver.
func New() *Solver {
	return &Solver{}
}

type requirement struct {
	parent     string
	raw        string
	constraint *semver.Constraints
}

type candidate struct {
	version *semver.Version
	release domain.Release
}

// state is one node of the search. It is copied before every choice.
type state struct {
	selected     map[string]candidate
	requirements map[string][]requirement
}

type conflict struct {
	name         string
	requirements []requirement
}

// run holds per-call caches so metadata is fetched at most once per package.
type run struct {
	fetcher    ports.PackageFetcher
	candidates map[string][]candidate
	conflict   *conflict
}

// Solve returns the chosen version for every package reachable from root.
// Constraints must already be in semver syntax.
func (s *Solver) Solve(root domain.RequirementSet, fetcher ports.PackageFetcher) (map[string]string, error) {
	st := state{
		selected:     make(map[string]candidate),
		requirements: make(map[string][]requirement),
	}
	for _, name := range root.Names() {
		req, err := parseRequirement(rootParent, name, root[name])
		if err != nil {
			return nil, err
		}
		st.requirements[name] = append(st.requirements[name], req)
	}

	r := &run{fetcher: fetcher, candidates: make(map[string][]candidate)}
	solved, err := r.solve(st)
	if err != nil {
		return nil, err
	}
	if solved == nil {
		return nil, r.noSolution()
	}

	out := make(map[string]string, len(solved.selected))
	for name, c := range solved.selected {
		out[name] = c.version.Original()
	}
	return out, nil
}

func (r *run) solve(st state) (*state, error) {
	name, ok := st.next()
	if !ok {
		return &st, nil
	}

	candidates, err := r.load(name)
	if err != nil {
		return nil, err
	}

	reqs := st.requirements[name]
	for _, c := range candidates {
		if !satisfiesAll(c.version, reqs) {
			continue
		}

		next, ok, err := st.choose(name, c)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		solved, err := r.solve(next)
		if err != nil {
			return nil, err
		}
		if solved != nil {
			return solved, nil
		}
	}

	if r.conflict == nil {
		r.conflict = &conflict{name: name, requirements: slices.Clone(reqs)}
	}
	return nil, nil
}

// load returns the candidates for name, newest first.
func (r *run) load(name string) ([]candidate, error) {
	if cached, ok := r.candidates[name]; ok {
		return cached, nil
	}

	meta, err := r.fetcher.Fetch(name)
	if err != nil {
		return nil, err
	}

	candidates := make([]candidate, 0, len(meta.Releases))
	for _, rel := range meta.Releases {
		v, err := semver.NewVersion(rel.Version)
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{version: v, release: rel})
	}
	slices.SortFunc(candidates, func(a, b candidate) int {
		return b.version.Compare(a.version)
	})

	r.candidates[name] = candidates
	return candidates, nil
}

func (r *run) noSolution() error {
	err := zerr.With(domain.ErrNoSolution, "package", r.conflict.name)
	parts := make([]string, 0, len(r.conflict.requirements))
	for _, req := range r.conflict.requirements {
		parts = append(parts, req.parent+" requires "+req.raw)
	}
	return zerr.With(err, "constraints", strings.Join(parts, "; "))
}

// next returns the first undecided package in name order.
func (st state) next() (string, bool) {
	var pending []string
	for name := range st.requirements {
		if _, ok := st.selected[name]; !ok {
			pending = append(pending, name)
		}
	}
	if len(pending) == 0 {
		return "", false
	}
	return slices.Min(pending), true
}

// choose selects c for name and adds its requirements. ok is false when one of
// them excludes a version already selected.
func (st state) choose(name string, c candidate) (state, bool, error) {
	next := state{
		selected:     make(map[string]candidate, len(st.selected)+1),
		requirements: make(map[string][]requirement, len(st.requirements)),
	}
	for k, v := range st.selected {
		next.selected[k] = v
	}
	for k, v := range st.requirements {
		next.requirements[k] = slices.Clip(v)
	}
	next.selected[name] = c

	parent := domain.PackageID{Name: name, Version: c.version.Original()}.String()
	for _, dep := range c.release.Requirements.Names() {
		req, err := parseRequirement(parent, dep, c.release.Requirements[dep])
		if err != nil {
			return state{}, false, err
		}
		if chosen, ok := next.selected[dep]; ok && !req.constraint.Check(chosen.version) {
			return state{}, false, nil
		}
		next.requirements[dep] = append(next.requirements[dep], req)
	}
	return next, true, nil
}

func satisfiesAll(v *semver.Version, reqs []requirement) bool {
	for _, req := range reqs {
		if !req.constraint.Check(v) {
			return false
		}
	}
	return true
}

func parseRequirement(parent, name, raw string) (requirement, error) {
	c, err := semver.NewConstraint(raw)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrInvalidRequirement.Error()), "package", name)
		return requirement{}, zerr.With(err, "requirement", raw)
	}
	return requirement{parent: parent, raw: raw, constraint: c}, nil
}
