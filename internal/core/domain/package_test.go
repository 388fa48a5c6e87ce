package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dem/internal/core/domain"
)

func TestInstallMethod_CacheTypeRoundTrip(t *testing.T) {
	tests := []struct {
		method    domain.InstallMethod
		cacheType domain.CacheType
	}{
		{domain.MethodRPM, domain.CacheTypeSystem},
		{domain.MethodPip, domain.CacheTypePip},
		{domain.MethodArchive, domain.CacheTypeLocal},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			assert.Equal(t, tt.cacheType, tt.method.CacheType())

			back, err := tt.cacheType.Method()
			require.NoError(t, err)
			assert.Equal(t, tt.method, back)
		})
	}
}

func TestCacheType_Unknown(t *testing.T) {
	_, err := domain.CacheType("brew").Method()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownInstallMethod))
}

func TestParseInstallMethod(t *testing.T) {
	m, err := domain.ParseInstallMethod("pip")
	require.NoError(t, err)
	assert.Equal(t, domain.MethodPip, m)

	_, err = domain.ParseInstallMethod("local")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownInstallMethod))
}

func TestPackageDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name    string
		pkg     domain.PackageDescriptor
		wantErr bool
	}{
		{"valid", domain.PackageDescriptor{Name: "qt", Version: "4.8.6", Method: domain.MethodRPM}, false},
		{"latest", domain.PackageDescriptor{Name: "qt", Version: domain.Latest, Method: domain.MethodPip}, false},
		{"empty name", domain.PackageDescriptor{Version: "1.0", Method: domain.MethodRPM}, true},
		{"empty version", domain.PackageDescriptor{Name: "qt", Method: domain.MethodRPM}, true},
		{"unknown method", domain.PackageDescriptor{Name: "qt", Version: "1.0", Method: "deb"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pkg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrManifestInvalid))
		})
	}
}

func TestPackageRecord_Matches(t *testing.T) {
	rec := domain.PackageRecord{Name: "gcc", Version: "5.2.0", Method: domain.MethodRPM}

	assert.True(t, rec.Matches(domain.PackageDescriptor{Name: "gcc", Version: "5.2.0", Method: domain.MethodRPM}))
	assert.False(t, rec.Matches(domain.PackageDescriptor{Name: "gcc", Version: "5.2.1", Method: domain.MethodRPM}))
	assert.False(t, rec.Matches(domain.PackageDescriptor{Name: "gcc", Version: "5.2.0", Method: domain.MethodArchive}))
}

func TestManifest_Validate(t *testing.T) {
	m := &domain.Manifest{Packages: []domain.PackageDescriptor{
		{Name: "qt", Version: "4.8.6", Method: domain.MethodRPM},
		{Name: "qt", Version: "4.8.7", Method: domain.MethodRPM},
	}}

	err := m.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrManifestInvalid))
	assert.Contains(t, err.Error(), "duplicate package")

	m.Packages = m.Packages[:1]
	require.NoError(t, m.Validate())

	got, ok := m.Package("qt")
	assert.True(t, ok)
	assert.Equal(t, "4.8.6", got.Version)

	_, ok = m.Package("json")
	assert.False(t, ok)
}

func TestReport_FailedAndCount(t *testing.T) {
	r := &domain.Report{Outcomes: []domain.Outcome{
		{Name: "qt", Action: domain.ActionInstall, Status: domain.StatusSucceeded},
		{Name: "gcc", Action: domain.ActionRemove, Status: domain.StatusFailed, Err: domain.ErrUninstallFailed},
		{Name: "gcc", Action: domain.ActionInstall, Status: domain.StatusSkipped, Err: domain.ErrRemovalBlocked},
		{Name: "json", Action: domain.ActionRemove, Status: domain.StatusSucceeded},
	}}

	failed := r.Failed()
	assert.Len(t, failed, 2)
	assert.Equal(t, 1, r.Count(domain.ActionInstall, domain.StatusSucceeded))
	assert.Equal(t, 1, r.Count(domain.ActionRemove, domain.StatusFailed))
	assert.Equal(t, 0, r.Count(domain.ActionInstall, domain.StatusPlanned))
}

func TestLayout(t *testing.T) {
	assert.Equal(t, ".devenv/dependencies/qt", domain.DependencyLocation("qt"))
	assert.Equal(t, []string{"devenv.yaml", "devenv.yml", "devenv.toml"}, domain.ManifestFileNames())
}
