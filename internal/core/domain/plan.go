package domain

import (
	"cmp"
	"maps"
	"slices"
)

// CacheState is the persisted record of a reconciliation: the digest of the manifest
// it was computed from and the realized package records keyed by name.
type CacheState struct {
	Digest   string
	Packages map[string]PackageRecord
}

// NewCacheState returns an empty, stale cache state.
func NewCacheState() *CacheState {
	return &CacheState{Packages: make(map[string]PackageRecord)}
}

// Removal is a cached package that must be uninstalled with the backend it was installed by.
type Removal struct {
	Name   string
	Record PackageRecord
}

// Plan is the package-level difference between a manifest and the cache.
type Plan struct {
	// Removals are applied before Installs.
	Removals []Removal
	Installs []PackageDescriptor
	// Unchanged names are left alone entirely.
	Unchanged []string
}

// Empty reports whether the plan requires no backend calls.
func (p *Plan) Empty() bool {
	return len(p.Removals) == 0 && len(p.Installs) == 0
}

// ComputePlan diffs the declared packages against the cached records.
//
// A cached name that is no longer declared, or whose version or method changed, is
// removed using its recorded method. A declared name that is not cached, or changed,
// is installed using its declared method. Everything is sorted by name.
func ComputePlan(declared []PackageDescriptor, cached map[string]PackageRecord) *Plan {
	plan := &Plan{}

	byName := make(map[string]PackageDescriptor, len(declared))
	for _, p := range declared {
		byName[p.Name] = p
	}

	for _, name := range slices.Sorted(maps.Keys(cached)) {
		rec := cached[name]
		want, ok := byName[name]
		if ok && rec.Version == want.Version && rec.Method == want.Method {
			plan.Unchanged = append(plan.Unchanged, name)
			continue
		}
		rec.Name = name
		plan.Removals = append(plan.Removals, Removal{Name: name, Record: rec.Clone()})
	}

	for _, p := range declared {
		rec, ok := cached[p.Name]
		if ok && rec.Version == p.Version && rec.Method == p.Method {
			continue
		}
		plan.Installs = append(plan.Installs, p)
	}
	slices.SortFunc(plan.Installs, func(a, b PackageDescriptor) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return plan
}
