package ports

import "context"

// Watcher reports changes to a project's manifest.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Watch starts watching root. Every value received is a batch of changed manifest
	// paths. The channel is closed when ctx is done.
	Watch(ctx context.Context, root string) (<-chan []string, error)
}
