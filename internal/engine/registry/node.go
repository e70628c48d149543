package registry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/apilevel/internal/engine/cache"
)

// NodeID is the unique identifier for the registry Graft node.
const NodeID graft.ID = "engine.registry"

func init() {
	graft.Register(graft.Node[*Registry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{cache.NodeID},
		Run: func(ctx context.Context) (*Registry, error) {
			manager, err := graft.Dep[*cache.Manager](ctx)
			if err != nil {
				return nil, err
			}
			return New(manager), nil
		},
	})
}
