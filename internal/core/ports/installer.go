package ports

import (
	"context"

	"go.trai.ch/dem/internal/core/domain"
)

// Workspace is the per-run view of a project that backends operate against.
type Workspace struct {
	// Root is the project root directory.
	Root   string
	Config domain.ManifestConfig
	Cache  PackageCache
}

// Installer installs and removes packages of one install method.
//
//go:generate mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks
type Installer interface {
	// Install makes the declared package available and returns the realized record.
	Install(ctx context.Context, ws *Workspace, pkg domain.PackageDescriptor) (domain.PackageRecord, error)

	// Remove uninstalls a previously realized package.
	Remove(ctx context.Context, ws *Workspace, record domain.PackageRecord) error
}
