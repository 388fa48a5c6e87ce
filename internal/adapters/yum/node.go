package yum

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dem/internal/adapters/shell"
	"go.trai.ch/dem/internal/core/ports"
)

// NodeID is the unique identifier for the yum backend Graft node.
const NodeID graft.ID = "adapter.installer.yum"

func init() {
	graft.Register(graft.Node[*Backend]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (*Backend, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			return NewBackend(runner), nil
		},
	})
}
