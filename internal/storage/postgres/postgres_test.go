package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/starshatter/campaign/internal/database"
	gormstorage "github.com/starshatter/campaign/internal/storage/gorm"
	"github.com/starshatter/campaign/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestInit_ConnectError(t *testing.T) {
	b := New(gormstorage.Dependencies{})
	b.connect = func() (*gorm.DB, error) { return nil, errors.New("connection refused") }

	err := b.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to postgres")
}

func TestInit_InjectedDBSkipsConnect(t *testing.T) {
	db, err := database.OpenSQLite(database.MemoryDSN(t.Name()))
	require.NoError(t, err)

	b := New(gormstorage.Dependencies{DB: db, FlushInterval: time.Hour})
	b.connect = func() (*gorm.DB, error) {
		t.Fatal("connect called with injected DB")
		return nil, nil
	}
	require.NoError(t, b.Init())
	defer b.Close()

	c := &core.Campaign{Name: "injected"}
	require.NoError(t, b.StartCampaign(c))
	assert.NotZero(t, c.ID)
}
