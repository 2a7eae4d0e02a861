// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/depot/internal/adapters/cache"
	_ "go.trai.ch/depot/internal/adapters/config"
	_ "go.trai.ch/depot/internal/adapters/linear"
	_ "go.trai.ch/depot/internal/adapters/lockfile"
	_ "go.trai.ch/depot/internal/adapters/logger"
	_ "go.trai.ch/depot/internal/adapters/registry"
	_ "go.trai.ch/depot/internal/adapters/tarball"
	_ "go.trai.ch/depot/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/depot/internal/app"
	_ "go.trai.ch/depot/internal/engine/acquire"
	_ "go.trai.ch/depot/internal/engine/resolution"
	_ "go.trai.ch/depot/internal/engine/solver"
)
