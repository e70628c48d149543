// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/apilevel/internal/adapters/config"
	_ "go.trai.ch/apilevel/internal/adapters/descriptor"
	_ "go.trai.ch/apilevel/internal/adapters/logger"
	_ "go.trai.ch/apilevel/internal/adapters/telemetry"
	_ "go.trai.ch/apilevel/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/apilevel/internal/app"
	_ "go.trai.ch/apilevel/internal/engine/cache"
	_ "go.trai.ch/apilevel/internal/engine/registry"
)
