package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/apilevel/internal/adapters/descriptor"
	"go.trai.ch/apilevel/internal/adapters/logger"
	"go.trai.ch/apilevel/internal/adapters/telemetry"
	"go.trai.ch/apilevel/internal/core/ports"
)

// NodeID is the unique identifier for the cache manager Graft node.
const NodeID graft.ID = "engine.cache"

func init() {
	graft.Register(graft.Node[*Manager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			descriptor.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Manager, error) {
			parser, err := graft.Dep[ports.DescriptorParser](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return NewManager(parser, log, tracer), nil
		},
	})
}
