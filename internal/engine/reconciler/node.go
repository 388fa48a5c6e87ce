package reconciler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dem/internal/adapters/archive"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/dem/internal/adapters/pip"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/dem/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/dem/internal/adapters/yum"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/dem/internal/core/ports"
)

// NodeID is the unique identifier for the reconciler Graft node.
const NodeID graft.ID = "engine.reconciler"

func init() {
	graft.Register(graft.Node[*Reconciler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			yum.NodeID,
			pip.NodeID,
			archive.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Reconciler, error) {
			rpm, err := graft.Dep[*yum.Backend](ctx)
			if err != nil {
				return nil, err
			}

			pipBackend, err := graft.Dep[*pip.Backend](ctx)
			if err != nil {
				return nil, err
			}

			archiveBackend, err := graft.Dep[*archive.Backend](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return New(rpm, pipBackend, archiveBackend, telemetry), nil
		},
	})
}
