package acquire

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/depot/internal/adapters/cache"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/depot/internal/adapters/logger"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/depot/internal/adapters/registry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/depot/internal/adapters/tarball"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/depot/internal/core/ports"
)

const (
	// PipelineNodeID is the unique identifier for the acquisition pipeline Graft node.
	PipelineNodeID graft.ID = "engine.acquire"

	// PrunerNodeID is the unique identifier for the pruner Graft node.
	PrunerNodeID graft.ID = "engine.pruner"
)

func init() {
	graft.Register(graft.Node[*Pipeline]{
		ID:        PipelineNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			registry.NodeID,
			cache.NodeID,
			tarball.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Pipeline, error) {
			reg, err := graft.Dep[ports.Registry](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.PackageCache](ctx)
			if err != nil {
				return nil, err
			}

			unpacker, err := graft.Dep[ports.Unpacker](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewPipeline(reg, store, unpacker, log), nil
		},
	})

	graft.Register(graft.Node[*Pruner]{
		ID:        PrunerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cache.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Pruner, error) {
			store, err := graft.Dep[ports.PackageCache](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewPruner(store, log), nil
		},
	})
}
