package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dem/internal/app"
	"go.trai.ch/dem/internal/core/domain"
)

func TestRun(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		manifest     string
		command      string
		expectedExit int
		expectCache  bool
	}{
		{
			name:         "sync with empty manifest",
			manifest:     "packages: {}\n",
			command:      "sync",
			expectedExit: 0,
			expectCache:  true,
		},
		{
			name:         "plan does not write the cache",
			manifest:     "packages: {}\n",
			command:      "plan",
			expectedExit: 0,
		},
		{
			name:         "status",
			manifest:     "packages: {}\n",
			command:      "status",
			expectedExit: 0,
		},
		{
			name:         "missing manifest",
			command:      "sync",
			expectedExit: 1,
		},
		{
			name:         "invalid manifest",
			manifest:     "packages:\n  gcc:\n    version: 5.2.0\n    type: deb\n",
			command:      "sync",
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			if tt.manifest != "" {
				require.NoError(t, os.WriteFile(filepath.Join(tmpDir, domain.ManifestFileName), []byte(tt.manifest), 0o600))
			}

			os.Args = []string{"dem", tt.command, "-C", tmpDir}

			exitCode := run(func(a *app.App) {
				a.WithOutput(io.Discard)
			})
			assert.Equal(t, tt.expectedExit, exitCode)

			if tt.expectCache {
				assert.FileExists(t, domain.CachePath(tmpDir))
			} else {
				assert.NoFileExists(t, domain.CachePath(tmpDir))
			}
		})
	}
}

func TestRun_Version(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	os.Args = []string{"dem", "version"}
	assert.Equal(t, 0, run())
}
