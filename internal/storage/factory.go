package storage

import (
	"fmt"

	"forest-focus-bot/internal/config"
	"forest-focus-bot/internal/logging"
)

// New picks the UserStore backend from configuration.
func New(cfg *config.Config, logger logging.Logger) (UserStore, error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		return NewFileStore(cfg.DataFile, logger)
	case config.BackendPostgres:
		return NewPostgresStore(cfg.PostgresDSN, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
