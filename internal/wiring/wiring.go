// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/dem/internal/adapters/archive"
	_ "go.trai.ch/dem/internal/adapters/cache"
	_ "go.trai.ch/dem/internal/adapters/config"
	_ "go.trai.ch/dem/internal/adapters/fs"
	_ "go.trai.ch/dem/internal/adapters/logger"
	_ "go.trai.ch/dem/internal/adapters/pip"
	_ "go.trai.ch/dem/internal/adapters/shell"
	_ "go.trai.ch/dem/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/dem/internal/adapters/watcher"
	_ "go.trai.ch/dem/internal/adapters/yum"
	// Register app and engine nodes.
	_ "go.trai.ch/dem/internal/app"
	_ "go.trai.ch/dem/internal/engine/reconciler"
)
