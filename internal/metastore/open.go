package metastore

import (
	"fmt"

	"organizer/internal/config"
	"organizer/internal/logging"

	"go.uber.org/zap"
)

// Open builds the store selected by the workspace config.
func Open(cfg *config.Config) (Store, error) {
	loc := cfg.MetaLocation()
	logging.Get(logging.CategoryStore).Info("opening sidecar store",
		zap.String("backend", cfg.Workspace.MetaBackend), zap.String("path", loc))

	switch cfg.Workspace.MetaBackend {
	case "", "json":
		return NewJSONStore(loc), nil
	case "sqlite":
		return NewSQLiteStore(loc)
	default:
		return nil, fmt.Errorf("unknown meta backend %q (valid: %v)", cfg.Workspace.MetaBackend, config.ValidBackends)
	}
}
