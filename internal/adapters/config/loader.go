// Package config provides the manifest loader for dem.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"go.trai.ch/dem/internal/core/domain"
	"go.trai.ch/dem/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ManifestLoader = (*Loader)(nil)

// Loader implements ports.ManifestLoader for YAML and TOML manifests.
type Loader struct {
	Hasher ports.Hasher
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given hasher and logger.
func NewLoader(hasher ports.Hasher, logger ports.Logger) *Loader {
	return &Loader{Hasher: hasher, Logger: logger}
}

// Load finds the manifest in root, decodes it and validates every package entry.
func (l *Loader) Load(root string) (*domain.Manifest, error) {
	path, err := l.findManifest(root)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is discovered in the project root
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}

	var file Devenvfile
	if filepath.Ext(path) == ".toml" {
		err = l.decodeTOML(path, data, &file)
	} else {
		err = decodeYAML(path, data, &file)
	}
	if err != nil {
		return nil, err
	}

	manifest := file.toDomain(path)
	manifest.Digest = l.Hasher.Digest(data)
	if err := manifest.Validate(); err != nil {
		return nil, zerr.With(err, "manifest", path)
	}
	return manifest, nil
}

// findManifest returns the first manifest name present in root.
func (l *Loader) findManifest(root string) (string, error) {
	var found []string
	for _, name := range domain.ManifestFileNames() {
		candidate := filepath.Join(root, name)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		found = append(found, candidate)
	}

	if len(found) == 0 {
		return "", zerr.With(zerr.Wrap(domain.ErrManifestNotFound, "failed to locate manifest"), "dir", root)
	}
	if len(found) > 1 {
		l.Logger.Warn(fmt.Sprintf("multiple manifests found, using %s and ignoring %s",
			filepath.Base(found[0]), baseNames(found[1:])))
	}
	return found[0], nil
}

func decodeYAML(path string, data []byte, out *Devenvfile) error {
	if err := yaml.Unmarshal(data, out); err != nil {
		return errors.Join(domain.ErrManifestInvalid, zerr.With(zerr.Wrap(err, "failed to parse manifest"), "path", path))
	}
	return nil
}

func (l *Loader) decodeTOML(path string, data []byte, out *Devenvfile) error {
	meta, err := toml.Decode(string(data), out)
	if err != nil {
		return errors.Join(domain.ErrManifestInvalid, zerr.With(zerr.Wrap(err, "failed to parse manifest"), "path", path))
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		l.Logger.Warn("ignoring unknown manifest keys: " + strings.Join(keys, ", "))
	}
	return nil
}

func (f *Devenvfile) toDomain(path string) *domain.Manifest {
	names := make([]string, 0, len(f.Packages))
	for name := range f.Packages {
		names = append(names, name)
	}
	slices.Sort(names)

	packages := make([]domain.PackageDescriptor, 0, len(names))
	for _, name := range names {
		dto := f.Packages[name]
		packages = append(packages, domain.PackageDescriptor{
			Name:    name,
			Version: strings.TrimSpace(string(dto.Version)),
			Method:  domain.InstallMethod(strings.TrimSpace(dto.Type)),
		})
	}

	return &domain.Manifest{
		Path:     path,
		Config:   domain.ManifestConfig{RemoteLocations: slices.Clone(f.Config.RemoteLocations)},
		Packages: packages,
	}
}

func baseNames(paths []string) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return strings.Join(names, ", ")
}
