package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dem/internal/adapters/cache"              //nolint:depguard // Wired in app layer
	"go.trai.ch/dem/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/dem/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/dem/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/dem/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"go.trai.ch/dem/internal/core/ports"
	"go.trai.ch/dem/internal/engine/reconciler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			cache.NodeID,
			reconciler.NodeID,
			watcher.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	manifests, err := graft.Dep[ports.ManifestLoader](ctx)
	if err != nil {
		return nil, err
	}

	caches, err := graft.Dep[ports.CacheLoader](ctx)
	if err != nil {
		return nil, err
	}

	rec, err := graft.Dep[*reconciler.Reconciler](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(manifests, caches, rec, w, telemetry, log), nil
}
