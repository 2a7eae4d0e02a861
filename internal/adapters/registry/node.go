package registry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/depot/internal/core/domain"
	"go.trai.ch/depot/internal/core/ports"
)

// NodeID is the unique identifier for the registry client Graft node.
const NodeID graft.ID = "adapter.registry"

func init() {
	graft.Register(graft.Node[ports.Registry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Registry, error) {
			baseURL := os.Getenv(domain.RegistryURLEnv)
			if baseURL == "" {
				baseURL = domain.DefaultRegistryURL
			}
			return NewClient(baseURL), nil
		},
	})
}
