package archive

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/dem/internal/core/domain"
	"go.trai.ch/dem/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Extensions lists the archive suffixes probed in every location, in priority order.
var Extensions = []string{".tar.gz", ".tgz", ".tar.xz", ".txz", ".tar"}

// Locator finds archive sources in a manifest's remote locations.
type Locator struct {
	logger ports.Logger
}

// NewLocator creates a new Locator.
func NewLocator(logger ports.Logger) *Locator {
	return &Locator{logger: logger}
}

// Candidates returns the file names an archive for pkg may have.
func Candidates(pkg domain.PackageDescriptor) []string {
	base := pkg.Name + "-" + pkg.Version
	if pkg.IsLatest() {
		base = pkg.Name
	}
	names := make([]string, len(Extensions))
	for i, ext := range Extensions {
		names[i] = base + ext
	}
	return names
}

// Find probes every local location concurrently and returns the archive found in the
// earliest declared one. Relative locations are resolved against root.
func (l *Locator) Find(ctx context.Context, root string, locations []string, pkg domain.PackageDescriptor) (string, error) {
	dirs := l.localDirs(root, locations)
	candidates := Candidates(pkg)
	found := make([]string, len(dirs))

	g, gctx := errgroup.WithContext(ctx)
	for i, dir := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found[i] = probe(dir, candidates)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", zerr.Wrap(err, "archive lookup interrupted")
	}

	for _, path := range found {
		if path != "" {
			return path, nil
		}
	}

	err := zerr.With(zerr.Wrap(domain.ErrArchiveNotFound, "failed to locate archive"), "package", pkg.Name)
	err = zerr.With(err, "version", pkg.Version)
	return "", zerr.With(err, "locations", strings.Join(locations, ", "))
}

func (l *Locator) localDirs(root string, locations []string) []string {
	dirs := make([]string, 0, len(locations))
	for _, loc := range locations {
		switch {
		case strings.HasPrefix(loc, "http://"), strings.HasPrefix(loc, "https://"):
			l.logger.Warn("skipping remote location " + loc + ": only local archive sources are supported")
			continue
		case strings.HasPrefix(loc, "file://"):
			loc = strings.TrimPrefix(loc, "file://")
		}
		if loc == "" {
			continue
		}
		if !filepath.IsAbs(loc) {
			loc = filepath.Join(root, loc)
		}
		dirs = append(dirs, loc)
	}
	return dirs
}

func probe(dir string, candidates []string) string {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}
