package yum_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dem/internal/adapters/yum"
	"go.trai.ch/dem/internal/core/domain"
	"go.trai.ch/dem/internal/core/ports"
	"go.trai.ch/dem/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBackend_Install(t *testing.T) {
	tests := []struct {
		name    string
		pkg     domain.PackageDescriptor
		wantArg string
	}{
		{"pinned version", domain.PackageDescriptor{Name: "package", Version: "1.3.0", Method: domain.MethodRPM}, "package-1.3.0"},
		{"latest is passed bare", domain.PackageDescriptor{Name: "package", Version: domain.Latest, Method: domain.MethodRPM}, "package"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			cache := mocks.NewMockPackageCache(ctrl)
			runner := mocks.NewMockCommandRunner(ctrl)

			cache.EXPECT().IsPackageInstalled(tt.pkg.Name, tt.pkg.Version, domain.MethodRPM).Return(false)
			runner.EXPECT().Run(gomock.Any(), "sudo", "yum", "install", tt.wantArg, "-y").Return(nil).Times(1)

			rec, err := yum.NewBackend(runner).Install(context.Background(), &ports.Workspace{Cache: cache}, tt.pkg)
			require.NoError(t, err)
			assert.Equal(t, domain.PackageRecord{Name: tt.pkg.Name, Version: tt.pkg.Version, Method: domain.MethodRPM}, rec)
		})
	}
}

func TestBackend_Install_SkipsWhenCacheHasIt(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockPackageCache(ctrl)
	runner := mocks.NewMockCommandRunner(ctrl)
	vertex := mocks.NewMockVertex(ctrl)

	cache.EXPECT().IsPackageInstalled("package", "1.3.0", domain.MethodRPM).Return(true)
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Times(0)
	vertex.EXPECT().Cached().Times(1)

	ctx := ports.ContextWithVertex(context.Background(), vertex)
	pkg := domain.PackageDescriptor{Name: "package", Version: "1.3.0", Method: domain.MethodRPM}

	rec, err := yum.NewBackend(runner).Install(ctx, &ports.Workspace{Cache: cache}, pkg)
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", rec.Version)
}

func TestBackend_Install_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockPackageCache(ctrl)
	runner := mocks.NewMockCommandRunner(ctrl)

	cache.EXPECT().IsPackageInstalled(gomock.Any(), gomock.Any(), gomock.Any()).Return(false)
	runner.EXPECT().Run(gomock.Any(), "sudo", "yum", "install", "package-1.3.0", "-y").Return(errors.New("exit status 1"))

	pkg := domain.PackageDescriptor{Name: "package", Version: "1.3.0", Method: domain.MethodRPM}
	_, err := yum.NewBackend(runner).Install(context.Background(), &ports.Workspace{Cache: cache}, pkg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 1")
}

func TestBackend_Remove(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), "sudo", "yum", "remove", "gcc", "-y").Return(nil).Times(1)

	rec := domain.PackageRecord{Name: "gcc", Version: "5.2.0", Method: domain.MethodRPM}
	require.NoError(t, yum.NewBackend(runner).Remove(context.Background(), &ports.Workspace{}, rec))
}
