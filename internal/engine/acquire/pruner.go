package acquire

import (
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
)

// Pruner removes packages recorded in the ledger that a manifest no longer needs.
type Pruner struct {
	cache  ports.PackageCache
	logger ports.Logger
}

// NewPruner creates a Pruner.
func NewPruner(cache ports.PackageCache, logger ports.Logger) *Pruner {
	return &Pruner{cache: cache, logger: logger}
}

// Prune deletes every ledger entry whose version differs from the manifest's
// and returns the ones actually removed. Each removal is independent: a
// failure is logged as a warning and the rest still run.
func (p *Pruner) Prune(dir string, ledger *domain.Ledger, manifest *domain.Manifest) []domain.PackageID {
	stale := domain.StalePackages(ledger, manifest)
	removed := make([]domain.PackageID, 0, len(stale))

	for _, id := range stale {
		if err := p.cache.Remove(dir, id); err != nil {
			p.logger.Warn("failed to remove " + id.String())
			p.logger.Debug("package removal failed", "package", id.String(), "error", err.Error())
			continue
		}
		p.logger.Debug("removed stale package", "package", id.String())
		removed = append(removed, id)
	}
	return removed
}
