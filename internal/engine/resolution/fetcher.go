package resolution

import (
	"context"

	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
	"go.trai.ch/zerr"
)

// registryFetcher satisfies the solver's metadata requests with one blocking
// registry call each. It captures the command context so cancellation reaches
// the in-flight request.
type registryFetcher struct {
	ctx      context.Context //nolint:containedctx // Solver callbacks have no context parameter.
	registry ports.Registry
	logger   ports.Logger
}

// Fetch returns the metadata for name with every release's requirements in solver syntax.
// Releases whose requirements cannot be translated are dropped.
func (f *registryFetcher) Fetch(name string) (*domain.PackageMetadata, error) {
	f.logger.Debug("fetching package metadata", "package", name)

	meta, err := f.registry.GetPackage(f.ctx, name)
	if err != nil {
		return nil, zerr.With(err, "package", name)
	}

	out := &domain.PackageMetadata{Name: meta.Name, Releases: make([]domain.Release, 0, len(meta.Releases))}
	for _, rel := range meta.Releases {
		reqs, err := translateAll(rel.Requirements)
		if err != nil {
			f.logger.Debug("skipping release with invalid requirements",
				"package", name, "version", rel.Version, "error", err.Error())
			continue
		}
		out.Releases = append(out.Releases, domain.Release{Version: rel.Version, Requirements: reqs})
	}
	return out, nil
}
