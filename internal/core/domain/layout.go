package domain

import (
	"path"
	"path/filepath"
)

const (
	// DevEnvDirName is the name of the per-project state directory.
	DevEnvDirName = ".devenv"

	// CacheFileName is the name of the installed-package cache file.
	CacheFileName = "cache.json"

	// DependenciesDirName is the name of the directory archives are extracted into.
	DependenciesDirName = "dependencies"

	// ManifestFileName is the name of the YAML project manifest.
	ManifestFileName = "devenv.yaml"

	// ManifestAltFileName is the alternate extension accepted for the YAML manifest.
	ManifestAltFileName = "devenv.yml"

	// ManifestTOMLFileName is the name of the TOML project manifest.
	ManifestTOMLFileName = "devenv.toml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// ManifestFileNames lists the manifest names searched in a project root, in priority order.
func ManifestFileNames() []string {
	return []string{ManifestFileName, ManifestAltFileName, ManifestTOMLFileName}
}

// DevEnvPath returns the state directory of the project rooted at root.
func DevEnvPath(root string) string {
	return filepath.Join(root, DevEnvDirName)
}

// CachePath returns the cache file of the project rooted at root.
// It joins root, .devenv and cache.json.
func CachePath(root string) string {
	return filepath.Join(root, DevEnvDirName, CacheFileName)
}

// DependenciesPath returns the archive extraction directory of the project rooted at root.
func DependenciesPath(root string) string {
	return filepath.Join(root, DevEnvDirName, DependenciesDirName)
}

// DependencyLocation returns the project-relative install location recorded for an
// archive package. It is slash-separated so cache files stay portable.
func DependencyLocation(name string) string {
	return path.Join(DevEnvDirName, DependenciesDirName, name)
}
