package domain

import (
	"errors"
	"slices"

	"go.trai.ch/zerr"
)

// ManifestConfig is the config block of a manifest.
type ManifestConfig struct {
	// RemoteLocations lists where archive sources are looked up, in priority order.
	RemoteLocations []string
}

// Manifest is the parsed declarative package list of a project.
type Manifest struct {
	// Path is the file the manifest was read from.
	Path string
	// Digest is the MD5 of the exact bytes that were parsed. A successful run
	// stamps it into the cache, so an edit made while the run was in progress
	// still reads as pending afterwards.
	Digest   string
	Config   ManifestConfig
	Packages []PackageDescriptor
}

// Validate checks every declared package and rejects duplicate names.
func (m *Manifest) Validate() error {
	seen := make(map[string]struct{}, len(m.Packages))
	for _, p := range m.Packages {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.Name]; dup {
			return joinManifestError("duplicate package", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// Package returns the declared package with the given name.
func (m *Manifest) Package(name string) (PackageDescriptor, bool) {
	i := slices.IndexFunc(m.Packages, func(p PackageDescriptor) bool { return p.Name == name })
	if i < 0 {
		return PackageDescriptor{}, false
	}
	return m.Packages[i], true
}

func joinManifestError(msg, name string) error {
	return errors.Join(ErrManifestInvalid, zerr.With(zerr.New(msg), "package", name))
}
