package domain

import "go.trai.ch/zerr"

var (
	// ErrManifestNotFound is returned when no manifest exists in the project root.
	ErrManifestNotFound = zerr.New("no devenv manifest found")

	// ErrManifestInvalid is returned when a declared package entry is malformed.
	// It is fatal: the reconciler cannot compute a diff against it.
	ErrManifestInvalid = zerr.New("invalid manifest")

	// ErrUnknownInstallMethod is returned for an install type no backend handles.
	ErrUnknownInstallMethod = zerr.New("unknown install method")

	// ErrCacheRead is reported when the cache file exists but cannot be read or decoded.
	// It is recovered as "needs update".
	ErrCacheRead = zerr.New("failed to read package cache")

	// ErrCacheWriteFailed is returned when the cache file cannot be rewritten.
	ErrCacheWriteFailed = zerr.New("failed to write package cache")

	// ErrInstallFailed classifies a backend failure while installing a package.
	ErrInstallFailed = zerr.New("install failed")

	// ErrUninstallFailed classifies a backend failure while removing a package.
	ErrUninstallFailed = zerr.New("uninstall failed")

	// ErrRemovalBlocked is reported for an install skipped because removing the previous
	// install of the same package failed.
	ErrRemovalBlocked = zerr.New("previous version could not be removed")

	// ErrArchiveNotFound is returned when no remote location holds the declared archive.
	ErrArchiveNotFound = zerr.New("archive not found in any remote location")

	// ErrUnsupportedArchive is returned for an archive whose format cannot be extracted.
	ErrUnsupportedArchive = zerr.New("unsupported archive format")

	// ErrUnsafeArchiveEntry is returned for an archive entry that would escape its destination.
	ErrUnsafeArchiveEntry = zerr.New("archive entry escapes destination")

	// ErrLocationOutsideProject is returned when a recorded install location is outside the project root.
	ErrLocationOutsideProject = zerr.New("install location is outside project root")

	// ErrReconcileFailed is returned when at least one package operation failed.
	ErrReconcileFailed = zerr.New("reconciliation finished with failures")
)
