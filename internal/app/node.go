package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/depot/internal/adapters/cache"     //nolint:depguard // Wired in app layer
	"go.trai.ch/depot/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/depot/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/depot/internal/adapters/lockfile"  //nolint:depguard // Wired in app layer
	"go.trai.ch/depot/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/depot/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/depot/internal/core/ports"
	"go.trai.ch/depot/internal/engine/acquire"
	"go.trai.ch/depot/internal/engine/resolution"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"

	// ComponentsNodeID is the unique identifier for the Components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds everything the command layer needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			lockfile.NodeID,
			resolution.NodeID,
			acquire.PipelineNodeID,
			acquire.PrunerNodeID,
			cache.NodeID,
			telemetry.TracerNodeID,
			linear.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	lockfiles, err := graft.Dep[ports.LockfileStore](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[*resolution.Engine](ctx)
	if err != nil {
		return nil, err
	}

	pipeline, err := graft.Dep[*acquire.Pipeline](ctx)
	if err != nil {
		return nil, err
	}

	pruner, err := graft.Dep[*acquire.Pruner](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.PackageCache](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.Renderer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, lockfiles, resolver, pipeline, pruner, store, tracer, renderer, log), nil
}
