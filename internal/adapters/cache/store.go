// Package cache implements the project package cache stored in .devenv/cache.json.
package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/dem/internal/core/domain"
	"go.trai.ch/dem/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PackageCache = (*Store)(nil)

// Store implements ports.PackageCache using a flat JSON file.
type Store struct {
	path         string
	manifestPath string
	hasher       ports.Hasher
	logger       ports.Logger

	mu    sync.RWMutex
	state *domain.CacheState
}

// NewStore opens the cache of the project rooted at root.
// A missing file yields an empty cache; an unreadable or corrupt one is logged and
// also yields an empty cache, which always needs an update.
func NewStore(root, manifestPath string, hasher ports.Hasher, logger ports.Logger) *Store {
	s := &Store{
		path:         filepath.Clean(domain.CachePath(root)),
		manifestPath: manifestPath,
		hasher:       hasher,
		logger:       logger,
		state:        domain.NewCacheState(),
	}
	if err := s.load(); err != nil {
		s.logger.Warn("treating package cache as empty: " + err.Error())
	}
	return s
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Join(domain.ErrCacheRead, zerr.With(err, "path", s.path))
	}

	if len(data) == 0 {
		return nil
	}

	state, err := decode(data)
	if err != nil {
		return errors.Join(domain.ErrCacheRead, zerr.With(err, "path", s.path))
	}
	s.state = state
	return nil
}

// NeedsUpdate reports whether the manifest digest differs from the cached one.
func (s *Store) NeedsUpdate() bool {
	s.mu.RLock()
	cached := s.state.Digest
	s.mu.RUnlock()

	if cached == "" {
		return true
	}

	current, err := s.hasher.ManifestDigest(s.manifestPath)
	if err != nil {
		s.logger.Warn(err.Error())
		return true
	}
	return current != cached
}

// IsPackageInstalled reports whether a record with the same version and method exists.
func (s *Store) IsPackageInstalled(name, version string, method domain.InstallMethod) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.state.Packages[name]
	return ok && rec.Version == version && rec.Method == method
}

// Packages returns a copy of the cached records.
func (s *Store) Packages() map[string]domain.PackageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.PackageRecord, len(s.state.Packages))
	for name, rec := range s.state.Packages {
		out[name] = rec.Clone()
	}
	return out
}

// Digest returns the manifest digest the cache was last written with.
func (s *Store) Digest() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Digest
}

// Update rewrites the cache with records and the digest of the manifest they
// were reconciled against.
func (s *Store) Update(digest string, records []domain.PackageRecord) error {
	return s.replace(digest, records)
}

// Invalidate rewrites the cache with records and no digest.
func (s *Store) Invalidate(records []domain.PackageRecord) error {
	return s.replace("", records)
}

func (s *Store) replace(digest string, records []domain.PackageRecord) error {
	state := &domain.CacheState{
		Digest:   digest,
		Packages: make(map[string]domain.PackageRecord, len(records)),
	}
	for _, rec := range records {
		state.Packages[rec.Name] = rec.Clone()
	}

	data, err := encode(state)
	if err != nil {
		return errors.Join(domain.ErrCacheWriteFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := atomicWriteFile(s.path, data); err != nil {
		return errors.Join(domain.ErrCacheWriteFailed, zerr.With(err, "path", s.path))
	}
	s.state = state
	return nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file and renaming it.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "cache-*.json")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
