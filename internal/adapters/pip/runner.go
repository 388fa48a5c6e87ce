// Package pip installs Python packages through pip.
package pip

import (
	"context"
	"os"

	"go.trai.ch/dem/internal/core/domain"
	"go.trai.ch/dem/internal/core/ports"
	"go.trai.ch/zerr"
)

// ExecutableEnv names the environment variable overriding the pip executable.
const ExecutableEnv = "DEM_PIP"

// DefaultExecutable is used when ExecutableEnv is unset.
const DefaultExecutable = "pip"

var _ ports.PipRunner = (*Runner)(nil)

// Runner implements ports.PipRunner by invoking the pip command line.
type Runner struct {
	runner     ports.CommandRunner
	executable string
}

// NewRunner creates a Runner invoking executable through runner.
func NewRunner(runner ports.CommandRunner, executable string) *Runner {
	if executable == "" {
		executable = DefaultExecutable
	}
	return &Runner{runner: runner, executable: executable}
}

// ExecutableFromEnv returns the pip executable configured in the environment.
func ExecutableFromEnv() string {
	if exe := os.Getenv(ExecutableEnv); exe != "" {
		return exe
	}
	return DefaultExecutable
}

// Install runs "pip install <name>==<version>", or "pip install <name>" for latest.
func (r *Runner) Install(ctx context.Context, name, version string) error {
	req := name
	if version != domain.Latest {
		req = name + "==" + version
	}
	if err := r.runner.Run(ctx, r.executable, "install", req); err != nil {
		return zerr.With(zerr.Wrap(err, "pip install failed"), "requirement", req)
	}
	return nil
}

// Remove runs "pip uninstall -y <name>". pip does not take a version on uninstall.
func (r *Runner) Remove(ctx context.Context, name, _ string) error {
	if err := r.runner.Run(ctx, r.executable, "uninstall", "-y", name); err != nil {
		return zerr.Wrap(err, "pip uninstall failed")
	}
	return nil
}
