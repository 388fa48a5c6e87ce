package pip

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dem/internal/adapters/shell"
	"go.trai.ch/dem/internal/core/ports"
)

const (
	// RunnerNodeID is the unique identifier for the pip runner Graft node.
	RunnerNodeID graft.ID = "adapter.pip_runner"
	// NodeID is the unique identifier for the pip backend Graft node.
	NodeID graft.ID = "adapter.installer.pip"
)

func init() {
	graft.Register(graft.Node[ports.PipRunner]{
		ID:        RunnerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.PipRunner, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			return NewRunner(runner, ExecutableFromEnv()), nil
		},
	})

	graft.Register(graft.Node[*Backend]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{RunnerNodeID},
		Run: func(ctx context.Context) (*Backend, error) {
			pip, err := graft.Dep[ports.PipRunner](ctx)
			if err != nil {
				return nil, err
			}
			return NewBackend(pip), nil
		},
	})
}
