package descriptor

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/apilevel/internal/core/ports"
)

// NodeID is the unique identifier for the descriptor parser Graft node.
const NodeID graft.ID = "adapter.descriptor"

func init() {
	graft.Register(graft.Node[ports.DescriptorParser]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DescriptorParser, error) {
			return NewParser(), nil
		},
	})
}
