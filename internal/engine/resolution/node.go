package resolution

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/depot/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/depot/internal/adapters/registry"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/depot/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/depot/internal/core/ports"
	"go.trai.ch/depot/internal/engine/solver"
)

// NodeID is the unique identifier for the resolution engine Graft node.
const NodeID graft.ID = "engine.resolution"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			registry.NodeID,
			solver.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			reg, err := graft.Dep[ports.Registry](ctx)
			if err != nil {
				return nil, err
			}

			slv, err := graft.Dep[ports.Solver](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewEngine(reg, slv, tracer, log), nil
		},
	})
}
