package pip

import (
	"context"

	"go.trai.ch/dem/internal/core/domain"
	"go.trai.ch/dem/internal/core/ports"
)

var _ ports.Installer = (*Backend)(nil)

// Backend implements ports.Installer for MethodPip.
type Backend struct {
	pip ports.PipRunner
}

// NewBackend creates a Backend delegating to pip.
func NewBackend(pip ports.PipRunner) *Backend {
	return &Backend{pip: pip}
}

// Install installs pkg through the pip runner.
func (b *Backend) Install(ctx context.Context, _ *ports.Workspace, pkg domain.PackageDescriptor) (domain.PackageRecord, error) {
	if err := b.pip.Install(ctx, pkg.Name, pkg.Version); err != nil {
		return domain.PackageRecord{}, err
	}
	return domain.PackageRecord{Name: pkg.Name, Version: pkg.Version, Method: domain.MethodPip}, nil
}

// Remove uninstalls record through the pip runner.
func (b *Backend) Remove(ctx context.Context, _ *ports.Workspace, record domain.PackageRecord) error {
	return b.pip.Remove(ctx, record.Name, record.Version)
}
