// Package reconciler drives the installer backends from the difference between
// a manifest and the package cache.
package reconciler

import (
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/google/uuid"
	"go.trai.ch/dem/internal/core/domain"
	"go.trai.ch/dem/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options configures a single reconciliation run.
type Options struct {
	// DryRun computes the plan without calling any backend or writing the cache.
	DryRun bool
	// RunID correlates the run in logs. A new one is generated when empty.
	RunID string
}

// Reconciler applies a manifest to a project: load, diff, apply, persist.
type Reconciler struct {
	rpm       ports.Installer
	pip       ports.Installer
	archive   ports.Installer
	telemetry ports.Telemetry
}

// New creates a Reconciler with one backend per install method.
func New(rpm, pip, archive ports.Installer, telemetry ports.Telemetry) *Reconciler {
	return &Reconciler{
		rpm:       rpm,
		pip:       pip,
		archive:   archive,
		telemetry: telemetry,
	}
}

// Reconcile brings the project rooted at root in line with manifest.
//
// Per-package failures are reported as outcomes and never stop the remaining
// operations. The returned error is reserved for conditions that make the run
// meaningless: an invalid manifest or a cache that cannot be written.
func (r *Reconciler) Reconcile(
	ctx context.Context,
	root string,
	manifest *domain.Manifest,
	cache ports.PackageCache,
	opts Options,
) (*domain.Report, error) {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	report := &domain.Report{RunID: runID, DryRun: opts.DryRun}

	if err := manifest.Validate(); err != nil {
		return report, err
	}

	// 1. Nothing to do when the manifest is unchanged since the last run.
	if !cache.NeedsUpdate() {
		report.UpToDate = true
		return report, nil
	}

	// 2. Diff
	cached := cache.Packages()
	plan := domain.ComputePlan(manifest.Packages, cached)
	report.Unchanged = plan.Unchanged

	if opts.DryRun {
		report.Outcomes = planned(plan)
		return report, nil
	}

	// 3. Apply: removals first, so an install never collides with the files of
	// the version it replaces.
	ws := &ports.Workspace{Root: root, Config: manifest.Config, Cache: cache}

	realized := make(map[string]domain.PackageRecord, len(cached))
	for _, name := range plan.Unchanged {
		realized[name] = cached[name]
	}

	blocked := make(map[string]bool)
	for _, removal := range plan.Removals {
		outcome := r.remove(ctx, ws, removal.Record)
		if outcome.Err != nil {
			realized[removal.Name] = removal.Record
			blocked[removal.Name] = true
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	for _, pkg := range plan.Installs {
		if blocked[pkg.Name] {
			report.Outcomes = append(report.Outcomes, skipped(pkg))
			continue
		}
		record, outcome := r.install(ctx, ws, pkg)
		if outcome.Err == nil {
			realized[pkg.Name] = record
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	// 4. Persist
	records := make([]domain.PackageRecord, 0, len(realized))
	for _, name := range slices.Sorted(maps.Keys(realized)) {
		records = append(records, realized[name])
	}

	var err error
	if len(report.Failed()) == 0 {
		err = cache.Update(manifest.Digest, records)
	} else {
		// Leave the digest empty so the next run retries what failed.
		err = cache.Invalidate(records)
	}
	if err != nil {
		return report, zerr.Wrap(err, "failed to persist package cache")
	}
	return report, nil
}

func (r *Reconciler) backend(method domain.InstallMethod) (ports.Installer, error) {
	switch method {
	case domain.MethodRPM:
		return r.rpm, nil
	case domain.MethodPip:
		return r.pip, nil
	case domain.MethodArchive:
		return r.archive, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownInstallMethod, "no backend for install method"),
			"method", string(method))
	}
}

func (r *Reconciler) remove(ctx context.Context, ws *ports.Workspace, record domain.PackageRecord) domain.Outcome {
	outcome := domain.Outcome{
		Name:    record.Name,
		Action:  domain.ActionRemove,
		Method:  record.Method,
		Version: record.Version,
	}

	ctx, vertex := r.telemetry.Record(ctx, domain.VertexName(domain.ActionRemove, record.Name, record.Version, record.Method))

	err := func() error {
		backend, err := r.backend(record.Method)
		if err != nil {
			return err
		}
		return backend.Remove(ctx, ws, record)
	}()
	vertex.Complete(err)

	if err != nil {
		outcome.Status = domain.StatusFailed
		outcome.Err = classify(domain.ErrUninstallFailed, err, record.Name, record.Method)
		return outcome
	}
	outcome.Status = domain.StatusSucceeded
	return outcome
}

func (r *Reconciler) install(
	ctx context.Context,
	ws *ports.Workspace,
	pkg domain.PackageDescriptor,
) (domain.PackageRecord, domain.Outcome) {
	outcome := domain.Outcome{
		Name:    pkg.Name,
		Action:  domain.ActionInstall,
		Method:  pkg.Method,
		Version: pkg.Version,
	}

	ctx, vertex := r.telemetry.Record(ctx, domain.VertexName(domain.ActionInstall, pkg.Name, pkg.Version, pkg.Method))

	record, err := func() (domain.PackageRecord, error) {
		backend, err := r.backend(pkg.Method)
		if err != nil {
			return domain.PackageRecord{}, err
		}
		return backend.Install(ctx, ws, pkg)
	}()
	vertex.Complete(err)

	if err != nil {
		outcome.Status = domain.StatusFailed
		outcome.Err = classify(domain.ErrInstallFailed, err, pkg.Name, pkg.Method)
		return domain.PackageRecord{}, outcome
	}

	// The cache is keyed by what the manifest declared.
	record.Name = pkg.Name
	record.Version = pkg.Version
	record.Method = pkg.Method

	outcome.Status = domain.StatusSucceeded
	return record, outcome
}

func classify(sentinel, err error, name string, method domain.InstallMethod) error {
	return errors.Join(sentinel, zerr.With(zerr.With(err, "package", name), "method", string(method)))
}

func skipped(pkg domain.PackageDescriptor) domain.Outcome {
	return domain.Outcome{
		Name:    pkg.Name,
		Action:  domain.ActionInstall,
		Method:  pkg.Method,
		Version: pkg.Version,
		Status:  domain.StatusSkipped,
		Err: zerr.With(zerr.With(zerr.Wrap(domain.ErrRemovalBlocked, "install skipped"),
			"package", pkg.Name), "method", string(pkg.Method)),
	}
}

func planned(plan *domain.Plan) []domain.Outcome {
	outcomes := make([]domain.Outcome, 0, len(plan.Removals)+len(plan.Installs))
	for _, removal := range plan.Removals {
		outcomes = append(outcomes, domain.Outcome{
			Name:    removal.Name,
			Action:  domain.ActionRemove,
			Method:  removal.Record.Method,
			Version: removal.Record.Version,
			Status:  domain.StatusPlanned,
		})
	}
	for _, pkg := range plan.Installs {
		outcomes = append(outcomes, domain.Outcome{
			Name:    pkg.Name,
			Action:  domain.ActionInstall,
			Method:  pkg.Method,
			Version: pkg.Version,
			Status:  domain.StatusPlanned,
		})
	}
	return outcomes
}
