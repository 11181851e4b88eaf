package storage_test

import (
	"testing"

	"github.com/starshatter/campaign/internal/config"
	"github.com/starshatter/campaign/internal/logging"
	"github.com/starshatter/campaign/internal/storage"
	gormstorage "github.com/starshatter/campaign/internal/storage/gorm"
	"github.com/starshatter/campaign/internal/storage/memory"
	"github.com/starshatter/campaign/internal/storage/postgres"
	sqlitestorage "github.com/starshatter/campaign/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface checks
var (
	_ storage.Backend    = (*memory.Backend)(nil)
	_ storage.Exportable = (*memory.Backend)(nil)
	_ storage.Backend    = (*gormstorage.Backend)(nil)
	_ storage.Backend    = (*postgres.Backend)(nil)
	_ storage.Backend    = (*sqlitestorage.Backend)(nil)
)

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StorageConfig
		want    any
		wantErr bool
	}{
		{"memory", config.StorageConfig{Type: "memory"}, &memory.Backend{}, false},
		{"default", config.StorageConfig{}, &memory.Backend{}, false},
		{"postgres", config.StorageConfig{Type: "postgres"}, &postgres.Backend{}, false},
		{"sqlite", config.StorageConfig{Type: "sqlite"}, &sqlitestorage.Backend{}, false},
		{"unknown", config.StorageConfig{Type: "mongo"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := storage.NewBackend(tt.cfg, logging.NewSlogManager())
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown storage type")
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, b)
		})
	}
}
