package ports

import "go.trai.ch/dem/internal/core/domain"

// PackageCache is the persisted record of installed packages for one project.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type PackageCache interface {
	// NeedsUpdate reports whether the manifest changed since the cache was last written.
	// A missing, unreadable or corrupt cache file always needs an update.
	NeedsUpdate() bool

	// IsPackageInstalled reports whether the cache holds a record for name with
	// the given version and method.
	IsPackageInstalled(name, version string, method domain.InstallMethod) bool

	// Packages returns a copy of the cached records keyed by name.
	Packages() map[string]domain.PackageRecord

	// Update replaces the cached records, stamps digest as the manifest the
	// records were reconciled against and rewrites the cache file atomically.
	Update(digest string, records []domain.PackageRecord) error

	// Invalidate replaces the cached records but leaves the digest empty, so the
	// next run reconciles again.
	Invalidate(records []domain.PackageRecord) error
}

// CacheLoader opens the package cache of a project.
type CacheLoader interface {
	// Load opens the cache of the project rooted at root whose manifest is manifestPath.
	// An unreadable cache is reported through the logger and opened empty.
	Load(root, manifestPath string) PackageCache
}
