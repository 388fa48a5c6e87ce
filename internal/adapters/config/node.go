package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dem/internal/adapters/fs"
	"go.trai.ch/dem/internal/adapters/logger"
	"go.trai.ch/dem/internal/core/ports"
)

const NodeID graft.ID = "adapter.manifest_loader"

func init() {
	graft.Register(graft.Node[ports.ManifestLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ManifestLoader, error) {
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(hasher, log), nil
		},
	})
}
