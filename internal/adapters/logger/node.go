package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/apilevel/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

// ConsoleNodeID exposes the concrete Logger so the CLI can switch its output mode.
const ConsoleNodeID graft.ID = "adapter.logger.console"

func init() {
	graft.Register(graft.Node[*Logger]{
		ID:        ConsoleNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Logger, error) {
			return New(), nil
		},
	})

	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ConsoleNodeID},
		Run: func(ctx context.Context) (ports.Logger, error) {
			return graft.Dep[*Logger](ctx)
		},
	})
}
