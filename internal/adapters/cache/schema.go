package cache

import (
	"bytes"
	"encoding/json"

	"go.trai.ch/dem/internal/core/domain"
	"go.trai.ch/zerr"
)

// cacheFile is the on-disk layout of cache.json.
type cacheFile struct {
	MD5      string                `json:"md5"`
	Packages map[string]cacheEntry `json:"packages"`
}

// cacheEntry is one package record in cache.json.
type cacheEntry struct {
	Version          version          `json:"version"`
	Type             domain.CacheType `json:"type"`
	InstallLocations []string         `json:"install_locations,omitempty"`
	ArchiveChecksum  string           `json:"archive_checksum,omitempty"`
}

// version accepts both JSON strings and bare numbers, since older caches were written
// from manifests whose versions parsed as floats.
type version string

func (v *version) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = version(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return zerr.With(zerr.Wrap(err, "invalid package version"), "version", string(data))
	}
	*v = version(n.String())
	return nil
}

func decode(data []byte) (*domain.CacheState, error) {
	var file cacheFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal package cache")
	}

	state := domain.NewCacheState()
	state.Digest = file.MD5
	for name, entry := range file.Packages {
		method, err := entry.Type.Method()
		if err != nil {
			return nil, zerr.With(err, "package", name)
		}
		state.Packages[name] = domain.PackageRecord{
			Name:             name,
			Version:          string(entry.Version),
			Method:           method,
			InstallLocations: entry.InstallLocations,
			ArchiveChecksum:  entry.ArchiveChecksum,
		}
	}
	return state, nil
}

func encode(state *domain.CacheState) ([]byte, error) {
	file := cacheFile{
		MD5:      state.Digest,
		Packages: make(map[string]cacheEntry, len(state.Packages)),
	}
	for name, rec := range state.Packages {
		entry := cacheEntry{
			Version: version(rec.Version),
			Type:    rec.Method.CacheType(),
		}
		if rec.Method == domain.MethodArchive {
			entry.InstallLocations = rec.InstallLocations
			entry.ArchiveChecksum = rec.ArchiveChecksum
		}
		file.Packages[name] = entry
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to marshal package cache")
	}
	return append(data, '\n'), nil
}
