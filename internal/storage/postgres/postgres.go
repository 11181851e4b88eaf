// Package postgres implements the storage.Backend interface on PostgreSQL.
// It connects with the db.* settings and otherwise behaves like the shared
// GORM backend.
package postgres

import (
	"fmt"

	"github.com/starshatter/campaign/internal/database"
	gormstorage "github.com/starshatter/campaign/internal/storage/gorm"
	"gorm.io/gorm"
)

// Backend is the GORM backend bound to a Postgres connection.
type Backend struct {
	*gormstorage.Backend
	connect func() (*gorm.DB, error)
}

// New creates a Postgres backend. If deps.DB is nil, Init connects using
// the db.* configuration.
func New(deps gormstorage.Dependencies) *Backend {
	return &Backend{
		Backend: gormstorage.New(deps),
		connect: database.OpenPostgres,
	}
}

// Init connects, ensures PostGIS and starts the embedded GORM backend.
func (b *Backend) Init() error {
	if b.DB() == nil {
		db, err := b.connect()
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err = sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(10)
		b.SetDB(db)
	}

	db := b.DB()
	if db.Name() == "postgres" {
		// group positions are stored as geometry
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS postgis;`).Error; err != nil {
			return fmt.Errorf("failed to create PostGIS Extension: %w", err)
		}
	}

	return b.Backend.Init()
}
