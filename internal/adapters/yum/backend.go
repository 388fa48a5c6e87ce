// Package yum installs system packages through the yum package manager.
package yum

import (
	"context"

	"go.trai.ch/dem/internal/core/domain"
	"go.trai.ch/dem/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Installer = (*Backend)(nil)

// Backend implements ports.Installer for MethodRPM.
type Backend struct {
	runner ports.CommandRunner
}

// NewBackend creates a Backend that runs yum through runner.
func NewBackend(runner ports.CommandRunner) *Backend {
	return &Backend{runner: runner}
}

// Install runs "sudo yum install <name>[-<version>] -y". Nothing is run when the
// cache already records the same version installed through yum.
func (b *Backend) Install(ctx context.Context, ws *ports.Workspace, pkg domain.PackageDescriptor) (domain.PackageRecord, error) {
	record := domain.PackageRecord{Name: pkg.Name, Version: pkg.Version, Method: domain.MethodRPM}

	if ws.Cache != nil && ws.Cache.IsPackageInstalled(pkg.Name, pkg.Version, domain.MethodRPM) {
		if v := ports.VertexFromContext(ctx); v != nil {
			v.Cached()
		}
		return record, nil
	}

	if err := b.runner.Run(ctx, "sudo", "yum", "install", packageArg(pkg), "-y"); err != nil {
		return domain.PackageRecord{}, zerr.Wrap(err, "yum install failed")
	}
	return record, nil
}

// Remove runs "sudo yum remove <name> -y".
func (b *Backend) Remove(ctx context.Context, _ *ports.Workspace, record domain.PackageRecord) error {
	if err := b.runner.Run(ctx, "sudo", "yum", "remove", record.Name, "-y"); err != nil {
		return zerr.Wrap(err, "yum remove failed")
	}
	return nil
}

func packageArg(pkg domain.PackageDescriptor) string {
	if pkg.IsLatest() {
		return pkg.Name
	}
	return pkg.Name + "-" + pkg.Version
}
