package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/starshatter/campaign/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// seedJournal creates a migrated in-memory journal holding one campaign
// with a row in every journal table.
func seedJournal(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(MemoryDSN(name))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	c := model.Campaign{Name: name, Combatants: datatypes.JSON(`["Alliance"]`)}
	require.NoError(t, db.Create(&c).Error)
	require.NoError(t, db.Create(&model.CampaignEvent{CampaignID: c.ID, EventID: "e1", Title: "Raid"}).Error)
	require.NoError(t, db.Create(&model.ActionChange{CampaignID: c.ID, ActionID: 1, Status: "COMPLETE"}).Error)
	require.NoError(t, db.Create(&model.ForceSnapshot{CampaignID: c.ID, Combatant: "Alliance", Groups: datatypes.JSON(`[]`)}).Error)
	return db
}

func TestImportBackup(t *testing.T) {
	src := seedJournal(t, t.Name()+"_src")
	dst := seedJournal(t, t.Name()+"_dst")

	n, err := ImportBackup(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var campaigns []model.Campaign
	require.NoError(t, dst.Order("id").Find(&campaigns).Error)
	require.Len(t, campaigns, 2)
	imported := campaigns[1]
	assert.Equal(t, t.Name()+"_src", imported.Name)

	var events []model.CampaignEvent
	require.NoError(t, dst.Where("campaign_id = ?", imported.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].EventID)

	var changes int64
	require.NoError(t, dst.Model(&model.ActionChange{}).Where("campaign_id = ?", imported.ID).Count(&changes).Error)
	assert.Equal(t, int64(1), changes)

	var snaps int64
	require.NoError(t, dst.Model(&model.ForceSnapshot{}).Count(&snaps).Error)
	assert.Equal(t, int64(2), snaps)
}

func TestMigrateBackups(t *testing.T) {
	dir := t.TempDir()
	src := seedJournal(t, t.Name()+"_src")
	backup := filepath.Join(dir, "campaign_20260301_120000.db")
	require.NoError(t, VacuumInto(src, backup))

	dst, err := OpenSQLite(MemoryDSN(t.Name() + "_dst"))
	require.NoError(t, err)

	migrated, err := MigrateBackups(dir, dst, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{backup}, migrated)

	_, err = os.Stat(backup + ".migrated")
	assert.NoError(t, err)

	var count int64
	require.NoError(t, dst.Model(&model.CampaignEvent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMigrateBackups_MissingDir(t *testing.T) {
	dst, err := OpenSQLite(MemoryDSN(t.Name()))
	require.NoError(t, err)
	_, err = MigrateBackups(filepath.Join(t.TempDir(), "absent"), dst, zerolog.Nop())
	assert.Error(t, err)
}
