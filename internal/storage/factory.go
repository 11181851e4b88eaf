package storage

import (
	"fmt"

	"github.com/starshatter/campaign/internal/config"
	"github.com/starshatter/campaign/internal/logging"
	gormstorage "github.com/starshatter/campaign/internal/storage/gorm"
	"github.com/starshatter/campaign/internal/storage/memory"
	"github.com/starshatter/campaign/internal/storage/postgres"
	sqlitestorage "github.com/starshatter/campaign/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, logManager *logging.SlogManager) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(gormstorage.Dependencies{LogManager: logManager}), nil
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			DumpInterval: cfg.SQLite.DumpInterval,
			DumpPath:     cfg.SQLite.DumpPath,
		}, logManager)
	case "memory", "":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
