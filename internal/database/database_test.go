package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/starshatter/campaign/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDSN(t *testing.T) {
	assert.Equal(t, "file:journal?mode=memory&cache=shared", MemoryDSN("journal"))
}

func TestPostgresDSN(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("db.host", "db.local")
	viper.Set("db.port", "6543")
	viper.Set("db.username", "sim")
	viper.Set("db.password", "secret")
	viper.Set("db.database", "theater")

	assert.Equal(t, "host=db.local port=6543 user=sim password=secret dbname=theater sslmode=disable", PostgresDSN())
}

func TestOpenSQLite_MigrateAndVacuum(t *testing.T) {
	db, err := OpenSQLite(MemoryDSN(t.Name()))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, m := range model.DatabaseModels {
		assert.True(t, db.Migrator().HasTable(m), "%T not migrated", m)
	}

	require.NoError(t, db.Create(&model.Campaign{Name: "dump"}).Error)

	path := filepath.Join(t.TempDir(), "journal.db")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))
	require.NoError(t, VacuumInto(db, path))

	disk, err := OpenSQLite(path)
	require.NoError(t, err)
	var count int64
	require.NoError(t, disk.Model(&model.Campaign{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestVacuumInto_NoPath(t *testing.T) {
	db, err := OpenSQLite(MemoryDSN(t.Name()))
	require.NoError(t, err)
	assert.Error(t, VacuumInto(db, ""))
}

func TestManagerSetupRequiresConnection(t *testing.T) {
	m := NewManager(zerolog.Nop())
	assert.Error(t, m.Setup())
	assert.NoError(t, m.Close())
}

func TestGetBackupDBPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.db", "b.db", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.db"), 0o755))

	paths, err := GetBackupDBPaths(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "a.db"), filepath.Join(dir, "b.db")}, paths)
}
