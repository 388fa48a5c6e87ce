package domain

import (
	"maps"
	"slices"
)

// PackageState describes how a package's cached record relates to the manifest.
type PackageState string

const (
	// StateInstalled means the cache records the declared version and method.
	StateInstalled PackageState = "installed"
	// StatePending means the package is declared but not cached.
	StatePending PackageState = "pending"
	// StateChanged means the cached version or method differs from the declaration.
	StateChanged PackageState = "changed"
	// StateOrphaned means the package is cached but no longer declared.
	StateOrphaned PackageState = "orphaned"
)

// PackageStatus is one line of a project status.
type PackageStatus struct {
	Name    string
	Version string
	Method  InstallMethod
	State   PackageState
	// Cached is set for changed and orphaned packages.
	Cached *PackageRecord
}

// ProjectStatus is a read-only view of a project: its manifest, whether the cache
// is fresh and the state of every declared or cached package.
type ProjectStatus struct {
	ManifestPath string
	UpToDate     bool
	Packages     []PackageStatus
}

// ComputeStatus classifies declared and cached packages. Declared packages
// come first in manifest order, followed by orphans sorted by name.
func ComputeStatus(declared []PackageDescriptor, cached map[string]PackageRecord) []PackageStatus {
	out := make([]PackageStatus, 0, len(declared))
	seen := make(map[string]struct{}, len(declared))

	for _, p := range declared {
		seen[p.Name] = struct{}{}
		status := PackageStatus{Name: p.Name, Version: p.Version, Method: p.Method}

		rec, ok := cached[p.Name]
		switch {
		case !ok:
			status.State = StatePending
		case rec.Version == p.Version && rec.Method == p.Method:
			status.State = StateInstalled
		default:
			status.State = StateChanged
			c := rec.Clone()
			status.Cached = &c
		}
		out = append(out, status)
	}

	for _, name := range slices.Sorted(maps.Keys(cached)) {
		if _, ok := seen[name]; ok {
			continue
		}
		rec := cached[name].Clone()
		out = append(out, PackageStatus{
			Name:    name,
			Version: rec.Version,
			Method:  rec.Method,
			State:   StateOrphaned,
			Cached:  &rec,
		})
	}
	return out
}
