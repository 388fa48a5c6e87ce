package ports

import "context"

// CommandRunner runs external processes.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes name with args and blocks until it exits.
	// A non-zero exit status is returned as an error.
	Run(ctx context.Context, name string, args ...string) error
}

// PipRunner drives the Python package manager.
type PipRunner interface {
	// Install installs name at version, or the newest release when version is "latest".
	Install(ctx context.Context, name, version string) error
	// Remove uninstalls name.
	Remove(ctx context.Context, name, version string) error
}
