package cache_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dem/internal/adapters/cache"
	"go.trai.ch/dem/internal/adapters/fs"
	"go.trai.ch/dem/internal/core/domain"
	"go.trai.ch/dem/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const sampleManifest = `
config:
    remote-locations:
        ['/opt',
        'http://github.com']
packages:
    qt:
        version: 4.8.6
        type: rpm
    json:
        version: 1.8
        type: archive
`

const differentManifest = `
config:
    remote-locations:
        ['/opt',
        'http://github.com']
packages:
    qt:
        version: 4.8.6
        type: rpm
    json:
        version: 1.9
        type: archive
`

const sampleCache = `
{
    "md5": "fd7590e5b7bbbfb051dca1ee9745041b"
}
`

const packagesCache = `
{
    "md5": "b084deb42d4daefe7c29d4eae24c2d2d",

    "packages":
    {
        "qt": {"version": "4.8.6", "type": "local", "install_locations": [".devenv/dependencies/qt"]},
        "json": {"version": 1.8, "type": "local", "install_locations": [".devenv/dependencies/json"]},
        "gcc": {"version": "5.2.0", "type": "system"},
        "git-python": {"version": "0.3.10", "type": "pip"}
    }
}
`

type project struct {
	root     string
	manifest string
}

func newProject(t *testing.T, manifest, cacheContent string) project {
	t.Helper()
	root := t.TempDir()
	p := project{root: root, manifest: filepath.Join(root, domain.ManifestFileName)}

	require.NoError(t, os.WriteFile(p.manifest, []byte(manifest), 0o600))
	if cacheContent != "" {
		require.NoError(t, os.MkdirAll(domain.DevEnvPath(root), 0o750))
		require.NoError(t, os.WriteFile(domain.CachePath(root), []byte(cacheContent), 0o600))
	}
	return p
}

func (p project) open(t *testing.T, log *mocks.MockLogger) *cache.Store {
	t.Helper()
	return cache.NewStore(p.root, p.manifest, fs.NewHasher(), log)
}

func (p project) digest(t *testing.T) string {
	t.Helper()
	d, err := fs.NewHasher().ManifestDigest(p.manifest)
	require.NoError(t, err)
	return d
}

func readCacheFile(t *testing.T, root string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(domain.CachePath(root)) //nolint:gosec // Test file with controlled path
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestStore_UpdateWritesManifestDigest(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := newProject(t, sampleManifest, "")

	store := p.open(t, mocks.NewMockLogger(ctrl))
	require.NoError(t, store.Update(p.digest(t), nil))

	data := readCacheFile(t, p.root)
	assert.Equal(t, "fd7590e5b7bbbfb051dca1ee9745041b", data["md5"])
	assert.False(t, store.NeedsUpdate())
}

func TestStore_NeedsUpdate(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		cache    string
		want     bool
	}{
		{name: "cache file does not exist", manifest: sampleManifest, want: true},
		{name: "md5 mismatch", manifest: differentManifest, cache: sampleCache, want: true},
		{name: "md5 match", manifest: sampleManifest, cache: sampleCache, want: false},
		{name: "empty cache file", manifest: sampleManifest, cache: " ", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			log := mocks.NewMockLogger(ctrl)
			log.EXPECT().Warn(gomock.Any()).AnyTimes()

			p := newProject(t, tt.manifest, tt.cache)
			assert.Equal(t, tt.want, p.open(t, log).NeedsUpdate())
		})
	}
}

func TestStore_CorruptCacheIsTreatedAsMissing(t *testing.T) {
	tests := []struct {
		name  string
		cache string
	}{
		{"invalid json", `{"md5": "fd7590e5`},
		{"unknown package type", `{"md5": "fd7590e5b7bbbfb051dca1ee9745041b", "packages": {"x": {"version": "1", "type": "deb"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			log := mocks.NewMockLogger(ctrl)
			log.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
				assert.Contains(t, msg, domain.ErrCacheRead.Error())
			}).Times(1)

			p := newProject(t, sampleManifest, tt.cache)
			store := p.open(t, log)

			assert.True(t, store.NeedsUpdate())
			assert.Empty(t, store.Packages())
		})
	}
}

func TestStore_Packages(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := newProject(t, sampleManifest, packagesCache)
	store := p.open(t, mocks.NewMockLogger(ctrl))

	pkgs := store.Packages()
	require.Len(t, pkgs, 4)
	assert.Equal(t, domain.PackageRecord{
		Name:             "json",
		Version:          "1.8",
		Method:           domain.MethodArchive,
		InstallLocations: []string{".devenv/dependencies/json"},
	}, pkgs["json"])
	assert.Equal(t, domain.MethodRPM, pkgs["gcc"].Method)
	assert.Equal(t, domain.MethodPip, pkgs["git-python"].Method)

	// Returned records are copies.
	rec := pkgs["qt"]
	rec.InstallLocations[0] = "elsewhere"
	assert.Equal(t, ".devenv/dependencies/qt", store.Packages()["qt"].InstallLocations[0])
}

func TestStore_IsPackageInstalled(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := newProject(t, sampleManifest, packagesCache)
	store := p.open(t, mocks.NewMockLogger(ctrl))

	assert.True(t, store.IsPackageInstalled("gcc", "5.2.0", domain.MethodRPM))
	assert.False(t, store.IsPackageInstalled("gcc", "5.2.1", domain.MethodRPM))
	assert.False(t, store.IsPackageInstalled("gcc", "5.2.0", domain.MethodPip))
	assert.False(t, store.IsPackageInstalled("clang", "5.2.0", domain.MethodRPM))
}

func TestStore_UpdateReplacesRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := newProject(t, sampleManifest, packagesCache)
	store := p.open(t, mocks.NewMockLogger(ctrl))

	err := store.Update(p.digest(t), []domain.PackageRecord{
		{Name: "qt", Version: "4.8.6", Method: domain.MethodRPM, InstallLocations: []string{"ignored"}},
		{
			Name: "json", Version: "1.8", Method: domain.MethodArchive,
			InstallLocations: []string{".devenv/dependencies/json"}, ArchiveChecksum: "00000000deadbeef",
		},
	})
	require.NoError(t, err)

	data := readCacheFile(t, p.root)
	pkgs, ok := data["packages"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, pkgs, 2)
	assert.Equal(t, map[string]any{"version": "4.8.6", "type": "system"}, pkgs["qt"])
	assert.Equal(t, map[string]any{
		"version":           "1.8",
		"type":              "local",
		"install_locations": []any{".devenv/dependencies/json"},
		"archive_checksum":  "00000000deadbeef",
	}, pkgs["json"])

	// Reopening sees the same state.
	reopened := p.open(t, mocks.NewMockLogger(ctrl))
	assert.False(t, reopened.NeedsUpdate())
	assert.True(t, reopened.IsPackageInstalled("json", "1.8", domain.MethodArchive))
	assert.False(t, reopened.IsPackageInstalled("gcc", "5.2.0", domain.MethodRPM))
}

func TestStore_ManifestEditFlipsNeedsUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := newProject(t, sampleManifest, "")
	store := p.open(t, mocks.NewMockLogger(ctrl))

	require.NoError(t, store.Update(p.digest(t), nil))
	require.False(t, store.NeedsUpdate())

	edited := strings.Replace(sampleManifest, "1.8", "1.9", 1)
	require.NoError(t, os.WriteFile(p.manifest, []byte(edited), 0o600))
	assert.True(t, store.NeedsUpdate())
}

func TestStore_Invalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := newProject(t, sampleManifest, sampleCache)
	store := p.open(t, mocks.NewMockLogger(ctrl))
	require.False(t, store.NeedsUpdate())

	err := store.Invalidate([]domain.PackageRecord{{Name: "gcc", Version: "5.2.0", Method: domain.MethodRPM}})
	require.NoError(t, err)

	assert.True(t, store.NeedsUpdate())
	assert.True(t, store.IsPackageInstalled("gcc", "5.2.0", domain.MethodRPM))
	assert.Equal(t, "", readCacheFile(t, p.root)["md5"])
}

func TestStore_UpdateLeavesNoTempFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := newProject(t, sampleManifest, "")
	store := p.open(t, mocks.NewMockLogger(ctrl))

	require.NoError(t, store.Update(p.digest(t), nil))
	require.NoError(t, store.Update(p.digest(t), nil))

	entries, err := os.ReadDir(domain.DevEnvPath(p.root))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.CacheFileName, entries[0].Name())
}

func TestStore_UpdateStampsGivenDigest(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := newProject(t, sampleManifest, "")
	store := p.open(t, mocks.NewMockLogger(ctrl))
	reconciled := p.digest(t)

	// The manifest is saved again before the run that read it finishes.
	require.NoError(t, os.WriteFile(p.manifest, []byte(differentManifest), 0o600))
	require.NoError(t, store.Update(reconciled, nil))

	assert.Equal(t, reconciled, readCacheFile(t, p.root)["md5"])
	assert.True(t, store.NeedsUpdate())
}

func TestStore_UpdateFailsOnUnwritableDir(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := newProject(t, sampleManifest, "")
	// A regular file where the .devenv directory belongs.
	require.NoError(t, os.WriteFile(domain.DevEnvPath(p.root), nil, 0o600))
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	store := p.open(t, log)

	err := store.Update(p.digest(t), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCacheWriteFailed)
}

func TestLoader_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := newProject(t, sampleManifest, sampleCache)

	loaded := cache.NewLoader(fs.NewHasher(), mocks.NewMockLogger(ctrl)).Load(p.root, p.manifest)
	assert.False(t, loaded.NeedsUpdate())
}
