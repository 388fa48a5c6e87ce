package reconciler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dem/internal/core/domain"
	"go.trai.ch/dem/internal/core/ports"
	"go.trai.ch/dem/internal/core/ports/mocks"
	"go.trai.ch/dem/internal/engine/reconciler"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	rpm     *mocks.MockInstaller
	pip     *mocks.MockInstaller
	archive *mocks.MockInstaller
	cache   *mocks.MockPackageCache
	names   []string
	r       *reconciler.Reconciler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		rpm:     mocks.NewMockInstaller(ctrl),
		pip:     mocks.NewMockInstaller(ctrl),
		archive: mocks.NewMockInstaller(ctrl),
		cache:   mocks.NewMockPackageCache(ctrl),
	}

	telemetry := mocks.NewMockTelemetry(ctrl)
	vertex := mocks.NewMockVertex(ctrl)
	vertex.EXPECT().Complete(gomock.Any()).AnyTimes()
	telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, name string) (context.Context, ports.Vertex) {
			f.names = append(f.names, name)
			return ports.ContextWithVertex(ctx, vertex), vertex
		}).AnyTimes()

	f.r = reconciler.New(f.rpm, f.pip, f.archive, telemetry)
	return f
}

const manifestDigest = "3b5d5c3712955042212316173ccf37be"

func manifest(pkgs ...domain.PackageDescriptor) *domain.Manifest {
	return &domain.Manifest{Path: "/work/devenv.yaml", Digest: manifestDigest, Packages: pkgs}
}

func echoRecord(_ context.Context, _ *ports.Workspace, pkg domain.PackageDescriptor) (domain.PackageRecord, error) {
	return domain.PackageRecord{Name: pkg.Name, Version: pkg.Version, Method: pkg.Method}, nil
}

func TestReconcile_UpToDate(t *testing.T) {
	f := newFixture(t)
	f.cache.EXPECT().NeedsUpdate().Return(false)

	report, err := f.r.Reconcile(context.Background(), "/work",
		manifest(domain.PackageDescriptor{Name: "gcc", Version: "5.2.0", Method: domain.MethodRPM}),
		f.cache, reconciler.Options{})
	require.NoError(t, err)

	assert.True(t, report.UpToDate)
	assert.Empty(t, report.Outcomes)
	assert.NotEmpty(t, report.RunID)
	assert.Empty(t, f.names)
}

func TestReconcile_InvalidManifestIsFatal(t *testing.T) {
	f := newFixture(t)

	_, err := f.r.Reconcile(context.Background(), "/work",
		manifest(domain.PackageDescriptor{Name: "gcc", Version: "", Method: domain.MethodRPM}),
		f.cache, reconciler.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrManifestInvalid)
}

func TestReconcile_UnchangedPackageIsLeftAlone(t *testing.T) {
	f := newFixture(t)
	qt := domain.PackageRecord{
		Name: "qt", Version: "4.8.6", Method: domain.MethodArchive,
		InstallLocations: []string{".devenv/dependencies/qt"},
	}

	f.cache.EXPECT().NeedsUpdate().Return(true)
	f.cache.EXPECT().Packages().Return(map[string]domain.PackageRecord{"qt": qt})
	f.cache.EXPECT().Update(manifestDigest, []domain.PackageRecord{qt}).Return(nil)

	report, err := f.r.Reconcile(context.Background(), "/work",
		manifest(domain.PackageDescriptor{Name: "qt", Version: "4.8.6", Method: domain.MethodArchive}),
		f.cache, reconciler.Options{})
	require.NoError(t, err)

	assert.Empty(t, report.Outcomes)
	assert.Equal(t, []string{"qt"}, report.Unchanged)
}

func TestReconcile_VersionChangeRemovesThenInstalls(t *testing.T) {
	f := newFixture(t)
	old := domain.PackageRecord{
		Name: "json", Version: "1.8", Method: domain.MethodArchive,
		InstallLocations: []string{".devenv/dependencies/json"},
	}
	fresh := domain.PackageRecord{
		Name: "json", Version: "1.9", Method: domain.MethodArchive,
		InstallLocations: []string{".devenv/dependencies/json"}, ArchiveChecksum: "0123456789abcdef",
	}

	f.cache.EXPECT().NeedsUpdate().Return(true)
	f.cache.EXPECT().Packages().Return(map[string]domain.PackageRecord{"json": old})

	gomock.InOrder(
		f.archive.EXPECT().Remove(gomock.Any(), gomock.Any(), old).Return(nil),
		f.archive.EXPECT().Install(gomock.Any(), gomock.Any(),
			domain.PackageDescriptor{Name: "json", Version: "1.9", Method: domain.MethodArchive}).Return(fresh, nil),
	)
	f.cache.EXPECT().Update(manifestDigest, []domain.PackageRecord{fresh}).Return(nil)

	report, err := f.r.Reconcile(context.Background(), "/work",
		manifest(domain.PackageDescriptor{Name: "json", Version: "1.9", Method: domain.MethodArchive}),
		f.cache, reconciler.Options{})
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, domain.ActionRemove, report.Outcomes[0].Action)
	assert.Equal(t, "1.8", report.Outcomes[0].Version)
	assert.Equal(t, domain.ActionInstall, report.Outcomes[1].Action)
	assert.Equal(t, domain.StatusSucceeded, report.Outcomes[1].Status)
	assert.Equal(t, []string{
		"remove json@1.8 (archive)",
		"install json@1.9 (archive)",
	}, f.names)
}

func TestReconcile_MethodChangeUsesBothBackends(t *testing.T) {
	f := newFixture(t)
	old := domain.PackageRecord{Name: "numpy", Version: "1.26", Method: domain.MethodRPM}

	f.cache.EXPECT().NeedsUpdate().Return(true)
	f.cache.EXPECT().Packages().Return(map[string]domain.PackageRecord{"numpy": old})

	gomock.InOrder(
		f.rpm.EXPECT().Remove(gomock.Any(), gomock.Any(), old).Return(nil),
		f.pip.EXPECT().Install(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(echoRecord),
	)
	f.cache.EXPECT().Update(manifestDigest, []domain.PackageRecord{
		{Name: "numpy", Version: "1.26", Method: domain.MethodPip},
	}).Return(nil)

	_, err := f.r.Reconcile(context.Background(), "/work",
		manifest(domain.PackageDescriptor{Name: "numpy", Version: "1.26", Method: domain.MethodPip}),
		f.cache, reconciler.Options{})
	require.NoError(t, err)
}

func TestReconcile_WorkspaceCarriesProject(t *testing.T) {
	f := newFixture(t)
	m := manifest(domain.PackageDescriptor{Name: "json", Version: "1.8", Method: domain.MethodArchive})
	m.Config.RemoteLocations = []string{"/opt"}

	f.cache.EXPECT().NeedsUpdate().Return(true)
	f.cache.EXPECT().Packages().Return(map[string]domain.PackageRecord{})
	f.archive.EXPECT().Install(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, ws *ports.Workspace, pkg domain.PackageDescriptor) (domain.PackageRecord, error) {
			assert.Equal(t, "/work", ws.Root)
			assert.Equal(t, []string{"/opt"}, ws.Config.RemoteLocations)
			assert.Same(t, f.cache, ws.Cache)
			assert.NotNil(t, ports.VertexFromContext(ctx))
			return echoRecord(ctx, ws, pkg)
		})
	f.cache.EXPECT().Update(manifestDigest, gomock.Any()).Return(nil)

	_, err := f.r.Reconcile(context.Background(), "/work", m, f.cache, reconciler.Options{})
	require.NoError(t, err)
}

func TestReconcile_DryRun(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().NeedsUpdate().Return(true)
	f.cache.EXPECT().Packages().Return(map[string]domain.PackageRecord{
		"gcc": {Name: "gcc", Version: "5.2.0", Method: domain.MethodRPM},
	})

	report, err := f.r.Reconcile(context.Background(), "/work",
		manifest(domain.PackageDescriptor{Name: "git-python", Version: domain.Latest, Method: domain.MethodPip}),
		f.cache, reconciler.Options{DryRun: true})
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, []domain.Outcome{
		{Name: "gcc", Action: domain.ActionRemove, Method: domain.MethodRPM, Version: "5.2.0", Status: domain.StatusPlanned},
		{Name: "git-python", Action: domain.ActionInstall, Method: domain.MethodPip, Version: domain.Latest, Status: domain.StatusPlanned},
	}, report.Outcomes)
	assert.Empty(t, f.names)
}

func TestReconcile_PartialFailure(t *testing.T) {
	f := newFixture(t)
	gcc := domain.PackageRecord{Name: "gcc", Version: "5.2.0", Method: domain.MethodRPM}
	qt := domain.PackageRecord{Name: "qt", Version: "4.8.6", Method: domain.MethodRPM}
	boom := errors.New("exit status 1")

	f.cache.EXPECT().NeedsUpdate().Return(true)
	f.cache.EXPECT().Packages().Return(map[string]domain.PackageRecord{"gcc": gcc, "qt": qt})

	f.rpm.EXPECT().Remove(gomock.Any(), gomock.Any(), gcc).Return(boom)
	f.rpm.EXPECT().Remove(gomock.Any(), gomock.Any(), qt).Return(nil)
	f.pip.EXPECT().Install(gomock.Any(), gomock.Any(),
		domain.PackageDescriptor{Name: "flask", Version: "3.0", Method: domain.MethodPip}).Return(domain.PackageRecord{}, boom)
	f.rpm.EXPECT().Install(gomock.Any(), gomock.Any(),
		domain.PackageDescriptor{Name: "make", Version: domain.Latest, Method: domain.MethodRPM}).DoAndReturn(echoRecord)

	// gcc is still installed, qt is gone, flask failed, make succeeded.
	f.cache.EXPECT().Invalidate([]domain.PackageRecord{
		gcc,
		{Name: "make", Version: domain.Latest, Method: domain.MethodRPM},
	}).Return(nil)

	report, err := f.r.Reconcile(context.Background(), "/work", manifest(
		domain.PackageDescriptor{Name: "flask", Version: "3.0", Method: domain.MethodPip},
		domain.PackageDescriptor{Name: "make", Version: domain.Latest, Method: domain.MethodRPM},
	), f.cache, reconciler.Options{})
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 4)
	failed := report.Failed()
	require.Len(t, failed, 2)

	assert.Equal(t, "gcc", failed[0].Name)
	assert.ErrorIs(t, failed[0].Err, domain.ErrUninstallFailed)
	assert.ErrorIs(t, failed[0].Err, boom)

	assert.Equal(t, "flask", failed[1].Name)
	assert.Equal(t, domain.MethodPip, failed[1].Method)
	assert.ErrorIs(t, failed[1].Err, domain.ErrInstallFailed)

	assert.Equal(t, 1, report.Count(domain.ActionRemove, domain.StatusSucceeded))
	assert.Equal(t, 1, report.Count(domain.ActionInstall, domain.StatusSucceeded))
}

func TestReconcile_FailedRemovalBlocksReinstall(t *testing.T) {
	f := newFixture(t)
	old := domain.PackageRecord{Name: "gcc", Version: "5.2.0", Method: domain.MethodRPM}

	f.cache.EXPECT().NeedsUpdate().Return(true)
	f.cache.EXPECT().Packages().Return(map[string]domain.PackageRecord{"gcc": old})
	f.rpm.EXPECT().Remove(gomock.Any(), gomock.Any(), old).Return(errors.New("locked"))
	f.cache.EXPECT().Invalidate([]domain.PackageRecord{old}).Return(nil)

	report, err := f.r.Reconcile(context.Background(), "/work",
		manifest(domain.PackageDescriptor{Name: "gcc", Version: "6.1.0", Method: domain.MethodRPM}),
		f.cache, reconciler.Options{})
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 2)
	install := report.Outcomes[1]
	assert.Equal(t, domain.ActionInstall, install.Action)
	assert.Equal(t, domain.StatusSkipped, install.Status)
	assert.ErrorIs(t, install.Err, domain.ErrRemovalBlocked)
}

func TestReconcile_CacheWriteFailureIsFatal(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().NeedsUpdate().Return(true)
	f.cache.EXPECT().Packages().Return(map[string]domain.PackageRecord{})
	f.cache.EXPECT().Update(manifestDigest, gomock.Any()).Return(errors.Join(domain.ErrCacheWriteFailed, errors.New("read-only")))

	report, err := f.r.Reconcile(context.Background(), "/work", manifest(), f.cache, reconciler.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCacheWriteFailed)
	assert.NotNil(t, report)
}

func TestReconcile_EmptyManifestStillStampsDigest(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().NeedsUpdate().Return(true)
	f.cache.EXPECT().Packages().Return(map[string]domain.PackageRecord{})
	f.cache.EXPECT().Update(manifestDigest, []domain.PackageRecord{}).Return(nil)

	report, err := f.r.Reconcile(context.Background(), "/work", manifest(), f.cache, reconciler.Options{})
	require.NoError(t, err)
	assert.Empty(t, report.Outcomes)
}

func TestReconcile_RunID(t *testing.T) {
	f := newFixture(t)
	f.cache.EXPECT().NeedsUpdate().Return(false).Times(2)

	report, err := f.r.Reconcile(context.Background(), "/work", manifest(), f.cache, reconciler.Options{RunID: "run-1"})
	require.NoError(t, err)
	assert.Equal(t, "run-1", report.RunID)

	report, err = f.r.Reconcile(context.Background(), "/work", manifest(), f.cache, reconciler.Options{})
	require.NoError(t, err)
	assert.Len(t, report.RunID, 36)
}
