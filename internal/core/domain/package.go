package domain

import (
	"errors"
	"slices"

	"go.trai.ch/zerr"
)

// Latest is the version sentinel meaning "no explicit pin".
const Latest = "latest"

// InstallMethod identifies the backend a package is declared for in the manifest.
type InstallMethod string

const (
	// MethodRPM installs through the system package manager.
	MethodRPM InstallMethod = "rpm"
	// MethodPip installs through the Python package manager.
	MethodPip InstallMethod = "pip"
	// MethodArchive extracts a local archive into the project.
	MethodArchive InstallMethod = "archive"
)

// CacheType is the install method as spelled in the cache file.
type CacheType string

const (
	// CacheTypeSystem is the cache spelling of MethodRPM.
	CacheTypeSystem CacheType = "system"
	// CacheTypePip is the cache spelling of MethodPip.
	CacheTypePip CacheType = "pip"
	// CacheTypeLocal is the cache spelling of MethodArchive.
	CacheTypeLocal CacheType = "local"
)

// ParseInstallMethod converts a manifest "type" value into an InstallMethod.
func ParseInstallMethod(s string) (InstallMethod, error) {
	switch m := InstallMethod(s); m {
	case MethodRPM, MethodPip, MethodArchive:
		return m, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnknownInstallMethod, "invalid manifest type"), "type", s)
	}
}

// CacheType returns the cache spelling of the method.
func (m InstallMethod) CacheType() CacheType {
	switch m {
	case MethodRPM:
		return CacheTypeSystem
	case MethodPip:
		return CacheTypePip
	case MethodArchive:
		return CacheTypeLocal
	default:
		return CacheType(m)
	}
}

// Method converts a cache "type" value back into an InstallMethod.
func (t CacheType) Method() (InstallMethod, error) {
	switch t {
	case CacheTypeSystem:
		return MethodRPM, nil
	case CacheTypePip:
		return MethodPip, nil
	case CacheTypeLocal:
		return MethodArchive, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnknownInstallMethod, "invalid cache type"), "type", string(t))
	}
}

// PackageDescriptor is a package as declared in the manifest.
type PackageDescriptor struct {
	Name    string
	Version string
	Method  InstallMethod
}

// IsLatest reports whether the descriptor is unpinned.
func (p PackageDescriptor) IsLatest() bool {
	return p.Version == Latest
}

// Validate checks that the descriptor can be dispatched to a backend.
func (p PackageDescriptor) Validate() error {
	if p.Name == "" {
		return joinManifestError("package name is empty", p.Name)
	}
	if p.Version == "" {
		return joinManifestError("package version is empty", p.Name)
	}
	if _, err := ParseInstallMethod(string(p.Method)); err != nil {
		return errors.Join(ErrManifestInvalid, zerr.With(err, "package", p.Name))
	}
	return nil
}

// PackageRecord is the realized state of one installed package, as kept in the cache.
type PackageRecord struct {
	Name    string
	Version string
	Method  InstallMethod
	// InstallLocations lists the paths created by an archive install,
	// project-relative unless the archive was installed elsewhere.
	InstallLocations []string
	// ArchiveChecksum is the checksum of the archive the locations were extracted from.
	ArchiveChecksum string
}

// Matches reports whether the record satisfies the descriptor.
func (r PackageRecord) Matches(p PackageDescriptor) bool {
	return r.Name == p.Name && r.Version == p.Version && r.Method == p.Method
}

// Clone returns a deep copy of the record.
func (r PackageRecord) Clone() PackageRecord {
	r.InstallLocations = slices.Clone(r.InstallLocations)
	return r
}
