package ports

import "go.trai.ch/depot/internal/core/domain"

//go:generate go run go.uber.org/mock/mockgen -source=solver.go -destination=mocks/mock_solver.go -package=mocks

// PackageFetcher supplies package metadata to a Solver on demand.
type PackageFetcher interface {
	// Fetch returns the metadata for the named package.
	Fetch(name string) (*domain.PackageMetadata, error)
}

// Solver picks one version per package such that every requirement holds.
// Implementations are synchronous and have no side effects beyond calling the fetcher.
type Solver interface {
	// Solve returns the chosen version for every package reachable from root.
	Solve(root domain.RequirementSet, fetcher PackageFetcher) (map[string]string, error)
}
