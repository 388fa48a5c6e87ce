package archive

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dem/internal/adapters/fs"
	"go.trai.ch/dem/internal/adapters/logger"
	"go.trai.ch/dem/internal/core/ports"
)

// NodeID is the unique identifier for the archive backend Graft node.
const NodeID graft.ID = "adapter.installer.archive"

func init() {
	graft.Register(graft.Node[*Backend]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Backend, error) {
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewBackend(NewLocator(log), hasher, log), nil
		},
	})
}
