package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/apilevel/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/apilevel/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/apilevel/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/apilevel/internal/core/ports"
	"go.trai.ch/apilevel/internal/engine/cache"
	"go.trai.ch/apilevel/internal/engine/registry"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			cache.NodeID,
			registry.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.ConsoleNodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[*logger.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewComponents(a, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[*config.Loader](ctx)
	if err != nil {
		return nil, err
	}
	manager, err := graft.Dep[*cache.Manager](ctx)
	if err != nil {
		return nil, err
	}
	reg, err := graft.Dep[*registry.Registry](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	return New(loader, manager, reg, w, log), nil
}
