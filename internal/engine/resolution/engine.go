// Package resolution decides whether a stored manifest can be reused and,
// when it cannot, resolves a fresh one through the solver.
package resolution

import (
	"context"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pmezard/go-difflib/difflib"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
	"go.trai.ch/zerr"
)

// Engine is the resolution decision engine.
type Engine struct {
	registry ports.Registry
	solver   ports.Solver
	tracer   ports.Tracer
	logger   ports.Logger
}

// NewEngine creates an Engine.
func NewEngine(registry ports.Registry, solver ports.Solver, tracer ports.Tracer, logger ports.Logger) *Engine {
	return &Engine{registry: registry, solver: solver, tracer: tracer, logger: logger}
}

// ResolvePhase is the span name reported while versions are being resolved.
const ResolvePhase = "Resolving versions"

// Decision is the outcome of Decide.
type Decision struct {
	// Manifest is the manifest the rest of the cycle builds against.
	Manifest *domain.Manifest

	// Reused is true when Manifest is the stored manifest, unchanged.
	Reused bool
}

// Decide reuses stored when its requirements equal reqs and resolves from scratch otherwise.
// Locked versions from an outdated manifest are not used as hints.
func (e *Engine) Decide(ctx context.Context, reqs domain.RequirementSet, stored *domain.Manifest) (Decision, error) {
	fingerprint := Fingerprint(reqs)

	if stored != nil && stored.Requirements.Equal(reqs) {
		e.logger.Debug("manifest up to date", "fingerprint", fingerprint)
		return Decision{Manifest: stored, Reused: true}, nil
	}

	if stored == nil {
		e.logger.Debug("no manifest found, resolving", "fingerprint", fingerprint)
	} else {
		e.logger.Debug("manifest outdated, resolving",
			"fingerprint", fingerprint, "diff", RequirementsDiff(stored.Requirements, reqs))
	}

	ctx, span := e.tracer.Start(ctx, ResolvePhase)
	defer span.End()
	span.SetAttribute("fingerprint", fingerprint)

	packages, err := e.Resolve(ctx, reqs)
	if err != nil {
		span.RecordError(err)
		return Decision{}, err
	}
	span.SetAttribute("packages", len(packages))
	return Decision{Manifest: domain.NewManifest(reqs, packages)}, nil
}

// Resolve runs the solver against the registry and returns the chosen version
// of every package reachable from reqs.
func (e *Engine) Resolve(ctx context.Context, reqs domain.RequirementSet) (map[string]string, error) {
	root, err := translateAll(reqs)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrResolutionFailed.Error())
	}

	fetcher := &registryFetcher{ctx: ctx, registry: e.registry, logger: e.logger}
	packages, err := e.solver.Solve(root, fetcher)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrResolutionFailed.Error())
	}

	for _, name := range reqs.Names() {
		if _, ok := packages[name]; !ok {
			return nil, zerr.With(domain.ErrResolutionFailed, "package", name)
		}
	}
	return packages, nil
}

// Fingerprint returns a stable hash of reqs, independent of map order.
func Fingerprint(reqs domain.RequirementSet) string {
	h := xxhash.New()
	for _, name := range reqs.Names() {
		_, _ = h.WriteString(name)
		_, _ = h.WriteString("=")
		_, _ = h.WriteString(reqs[name])
		_, _ = h.WriteString("\n")
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// RequirementsDiff renders a unified diff between two requirement sets, one
// "name requirement" line per package.
func RequirementsDiff(before, after domain.RequirementSet) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        requirementLines(before),
		B:        requirementLines(after),
		FromFile: domain.ManifestFileName,
		ToFile:   domain.ProjectFileName,
		Context:  0,
	})
	if err != nil {
		return ""
	}
	return diff
}

func requirementLines(reqs domain.RequirementSet) []string {
	var b strings.Builder
	for _, name := range reqs.Names() {
		b.WriteString(name)
		b.WriteString(" ")
		b.WriteString(reqs[name])
		b.WriteString("\n")
	}
	return difflib.SplitLines(b.String())
}
