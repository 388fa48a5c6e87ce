package ports

import "go.trai.ch/dem/internal/core/domain"

// ManifestLoader defines the interface for loading the project manifest.
//
//go:generate mockgen -source=manifest_loader.go -destination=mocks/mock_manifest_loader.go -package=mocks
type ManifestLoader interface {
	// Load finds and parses the manifest in the project root.
	Load(root string) (*domain.Manifest, error)
}
