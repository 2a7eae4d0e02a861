package ports

import "go.trai.ch/depot/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// DiscoverRoot walks up from cwd to find the project root.
	// Returns the directory containing depot.yaml.
	DiscoverRoot(cwd string) (string, error)

	// Load reads the project configuration from the given root.
	Load(root string) (*domain.Project, error)
}
