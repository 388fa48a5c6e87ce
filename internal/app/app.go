// Package app implements the application layer for dem.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.trai.ch/dem/internal/core/domain"
	"go.trai.ch/dem/internal/core/ports"
	"go.trai.ch/dem/internal/engine/reconciler"
	"go.trai.ch/dem/internal/ui/summary"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	manifests  ports.ManifestLoader
	caches     ports.CacheLoader
	reconciler *reconciler.Reconciler
	watcher    ports.Watcher
	telemetry  ports.Telemetry
	logger     ports.Logger
	out        io.Writer
}

// New creates a new App instance.
func New(
	manifests ports.ManifestLoader,
	caches ports.CacheLoader,
	rec *reconciler.Reconciler,
	watcher ports.Watcher,
	telemetry ports.Telemetry,
	log ports.Logger,
) *App {
	return &App{
		manifests:  manifests,
		caches:     caches,
		reconciler: rec,
		watcher:    watcher,
		telemetry:  telemetry,
		logger:     log,
		out:        os.Stdout,
	}
}

// WithOutput sets where summaries are written. Defaults to stdout.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// SetJSONLogs switches the logger to JSON output when it supports it.
func (a *App) SetJSONLogs(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

// Close flushes telemetry.
func (a *App) Close() error {
	return a.telemetry.Close()
}

// SyncOptions configuration for the Sync method.
type SyncOptions struct {
	// Dir is the project root. Defaults to the working directory.
	Dir    string
	DryRun bool
}

// Sync reconciles the project with its manifest and prints a summary.
// When any package operation failed the report is still returned together
// with domain.ErrReconcileFailed.
func (a *App) Sync(ctx context.Context, opts SyncOptions) (*domain.Report, error) {
	root, err := projectRoot(opts.Dir)
	if err != nil {
		return nil, err
	}

	// 1. Load
	manifest, err := a.manifests.Load(root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load manifest")
	}
	cache := a.caches.Load(root, manifest.Path)

	// 2. Reconcile
	runID := uuid.NewString()
	a.logger.Info(fmt.Sprintf("reconciling %s (run %s)", manifest.Path, runID))

	report, err := a.reconciler.Reconcile(ctx, root, manifest, cache, reconciler.Options{
		DryRun: opts.DryRun,
		RunID:  runID,
	})
	if err != nil {
		return report, zerr.Wrap(err, "reconciliation failed")
	}

	// 3. Report
	if err := summary.Render(a.out, report); err != nil {
		return report, zerr.Wrap(err, "failed to write summary")
	}

	if failed := report.Failed(); len(failed) > 0 {
		return report, zerr.With(zerr.Wrap(domain.ErrReconcileFailed, "sync incomplete"), "failed", len(failed))
	}
	return report, nil
}

// Plan computes what Sync would do without calling any backend or writing the cache.
func (a *App) Plan(ctx context.Context, dir string) (*domain.Report, error) {
	return a.Sync(ctx, SyncOptions{Dir: dir, DryRun: true})
}

// Status reports cache freshness and the state of every package, and prints it.
func (a *App) Status(_ context.Context, dir string) (*domain.ProjectStatus, error) {
	root, err := projectRoot(dir)
	if err != nil {
		return nil, err
	}

	manifest, err := a.manifests.Load(root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load manifest")
	}
	cache := a.caches.Load(root, manifest.Path)

	status := &domain.ProjectStatus{
		ManifestPath: manifest.Path,
		UpToDate:     !cache.NeedsUpdate(),
		Packages:     domain.ComputeStatus(manifest.Packages, cache.Packages()),
	}
	if err := summary.RenderStatus(a.out, status); err != nil {
		return status, zerr.Wrap(err, "failed to write status")
	}
	return status, nil
}

// Watch syncs once and then again after every manifest change, until ctx is done.
// Failed runs are logged and do not stop watching.
func (a *App) Watch(ctx context.Context, dir string) error {
	root, err := projectRoot(dir)
	if err != nil {
		return err
	}

	events, err := a.watcher.Watch(ctx, root)
	if err != nil {
		return zerr.Wrap(err, "failed to watch manifest")
	}

	a.syncAndLog(ctx, root)
	a.logger.Info("watching " + root + " for manifest changes")

	for range events {
		a.logger.Info("manifest changed")
		a.syncAndLog(ctx, root)
	}
	return nil
}

func (a *App) syncAndLog(ctx context.Context, root string) {
	_, err := a.Sync(ctx, SyncOptions{Dir: root})
	switch {
	case err == nil, errors.Is(err, domain.ErrReconcileFailed):
		// The summary already names every failure.
	case ctx.Err() != nil:
	default:
		a.logger.Error(err)
	}
}

func projectRoot(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve project root"), "dir", dir)
	}
	return root, nil
}
