package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dem/internal/adapters/fs"
	"go.trai.ch/dem/internal/adapters/logger"
	"go.trai.ch/dem/internal/core/ports"
)

// NodeID is the unique identifier for the cache loader Graft node.
const NodeID graft.ID = "adapter.cache_loader"

var _ ports.CacheLoader = (*Loader)(nil)

// Loader implements ports.CacheLoader by opening a Store per project.
type Loader struct {
	hasher ports.Hasher
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(hasher ports.Hasher, logger ports.Logger) *Loader {
	return &Loader{hasher: hasher, logger: logger}
}

// Load opens the cache of the project rooted at root.
func (l *Loader) Load(root, manifestPath string) ports.PackageCache {
	return NewStore(root, manifestPath, l.hasher, l.logger)
}

func init() {
	graft.Register(graft.Node[ports.CacheLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.CacheLoader, error) {
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
