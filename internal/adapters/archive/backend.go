// Package archive installs packages by extracting local archives into the project.
package archive

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/dem/internal/core/domain"
	"go.trai.ch/dem/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Installer = (*Backend)(nil)

// Backend implements ports.Installer for MethodArchive.
type Backend struct {
	locator *Locator
	hasher  ports.Hasher
	logger  ports.Logger
}

// NewBackend creates a new Backend.
func NewBackend(locator *Locator, hasher ports.Hasher, logger ports.Logger) *Backend {
	return &Backend{locator: locator, hasher: hasher, logger: logger}
}

// Install extracts the archive for pkg into .devenv/dependencies/<name>.
// Extraction is skipped when the cache already records the same archive at
// locations that still exist.
func (b *Backend) Install(ctx context.Context, ws *ports.Workspace, pkg domain.PackageDescriptor) (domain.PackageRecord, error) {
	src, err := b.locator.Find(ctx, ws.Root, ws.Config.RemoteLocations, pkg)
	if err != nil {
		return domain.PackageRecord{}, err
	}

	checksum, err := b.hasher.FileChecksum(src)
	if err != nil {
		return domain.PackageRecord{}, err
	}

	if rec, ok := b.existing(ws, pkg, checksum); ok {
		if v := ports.VertexFromContext(ctx); v != nil {
			v.Cached()
		}
		return rec, nil
	}

	if err := b.unpack(ctx, ws.Root, pkg.Name, src); err != nil {
		return domain.PackageRecord{}, zerr.With(err, "archive", src)
	}

	return domain.PackageRecord{
		Name:             pkg.Name,
		Version:          pkg.Version,
		Method:           domain.MethodArchive,
		InstallLocations: []string{domain.DependencyLocation(pkg.Name)},
		ArchiveChecksum:  checksum,
	}, nil
}

func (b *Backend) existing(ws *ports.Workspace, pkg domain.PackageDescriptor, checksum string) (domain.PackageRecord, bool) {
	if ws.Cache == nil || !ws.Cache.IsPackageInstalled(pkg.Name, pkg.Version, domain.MethodArchive) {
		return domain.PackageRecord{}, false
	}
	rec, ok := ws.Cache.Packages()[pkg.Name]
	if !ok || rec.ArchiveChecksum != checksum || len(rec.InstallLocations) == 0 {
		return domain.PackageRecord{}, false
	}
	for _, loc := range rec.InstallLocations {
		path, err := resolveLocation(ws.Root, loc)
		if err != nil {
			return domain.PackageRecord{}, false
		}
		if _, err := os.Stat(path); err != nil {
			return domain.PackageRecord{}, false
		}
	}
	return rec, true
}

// unpack extracts into a temporary sibling directory and renames it into place,
// so a failed extraction never leaves a partial destination behind.
func (b *Backend) unpack(ctx context.Context, root, name, src string) error {
	depsDir := domain.DependenciesPath(root)
	if err := os.MkdirAll(depsDir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create dependencies directory"), "path", depsDir)
	}

	tmp, err := os.MkdirTemp(depsDir, "."+name+"-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create staging directory"), "path", depsDir)
	}
	defer os.RemoveAll(tmp) //nolint:errcheck // staging directory is gone after a successful rename

	if err := os.Chmod(tmp, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to prepare staging directory"), "path", tmp)
	}

	warn := b.logger.Warn
	if v := ports.VertexFromContext(ctx); v != nil {
		warn = func(msg string) { v.Log(domain.LogLevelWarn, msg) }
	}
	if err := extract(src, tmp, warn); err != nil {
		return err
	}

	dest := filepath.Join(depsDir, name)
	if err := os.RemoveAll(dest); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to clear previous install"), "path", dest)
	}
	if err := os.Rename(tmp, dest); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to move extracted archive into place"), "path", dest)
	}
	return nil
}

// Remove deletes exactly the locations recorded for the package.
func (b *Backend) Remove(_ context.Context, ws *ports.Workspace, record domain.PackageRecord) error {
	var errs []error
	for _, loc := range record.InstallLocations {
		path, err := resolveLocation(ws.Root, loc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.RemoveAll(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, zerr.With(zerr.Wrap(err, "failed to remove install location"), "location", loc))
		}
	}
	return errors.Join(errs...)
}

// resolveLocation maps a recorded location to an absolute path inside root.
func resolveLocation(root, loc string) (string, error) {
	path := filepath.FromSlash(loc)
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve project root"), "root", root)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve install location"), "location", loc)
	}

	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == "." || !filepath.IsLocal(rel) {
		return "", zerr.With(zerr.Wrap(domain.ErrLocationOutsideProject, "refusing to remove"), "location", loc)
	}
	return absPath, nil
}
