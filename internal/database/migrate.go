package database

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/starshatter/campaign/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ImportBackup copies every campaign of src into dst in one transaction.
// Campaigns get new ids in dst and their journal rows follow them. It
// returns the number of campaigns copied.
func ImportBackup(src, dst *gorm.DB) (int, error) {
	var campaigns []model.Campaign
	if err := src.Find(&campaigns).Error; err != nil {
		return 0, fmt.Errorf("error reading campaigns: %w", err)
	}

	err := dst.Transaction(func(tx *gorm.DB) error {
		for i := range campaigns {
			c := campaigns[i]
			oldID := c.ID
			c.ID = 0
			if err := tx.Omit(clause.Associations).Create(&c).Error; err != nil {
				return fmt.Errorf("error creating campaign %q: %w", c.Name, err)
			}
			newID := c.ID

			if err := copyRows(src, tx, oldID, func(r *model.CampaignEvent) { r.ID, r.CampaignID = 0, newID }); err != nil {
				return fmt.Errorf("error migrating campaign_events: %w", err)
			}
			if err := copyRows(src, tx, oldID, func(r *model.ActionChange) { r.ID, r.CampaignID = 0, newID }); err != nil {
				return fmt.Errorf("error migrating action_changes: %w", err)
			}
			if err := copyRows(src, tx, oldID, func(r *model.ForceSnapshot) { r.ID, r.CampaignID = 0, newID }); err != nil {
				return fmt.Errorf("error migrating force_snapshots: %w", err)
			}
			if err := copyRows(src, tx, oldID, func(r *model.GroupPosition) { r.ID, r.CampaignID = 0, newID }); err != nil {
				return fmt.Errorf("error migrating group_positions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(campaigns), nil
}

func copyRows[M any](src, dst *gorm.DB, campaignID uint, reset func(*M)) error {
	var rows []M
	if err := src.Where("campaign_id = ?", campaignID).Find(&rows).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		reset(&rows[i])
	}
	return dst.Omit(clause.Associations).Create(&rows).Error
}

// MigrateBackups imports every SQLite journal in dir into dst and renames
// each imported file with a .migrated suffix. A failing file is logged and
// left in place. It returns the paths that were imported.
func MigrateBackups(dir string, dst *gorm.DB, log zerolog.Logger) ([]string, error) {
	paths, err := GetBackupDBPaths(dir)
	if err != nil {
		return nil, fmt.Errorf("error getting backup database paths: %w", err)
	}
	if err := Migrate(dst); err != nil {
		return nil, err
	}

	migrated := make([]string, 0, len(paths))
	for _, path := range paths {
		src, err := OpenSQLite(path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("Error opening backup")
			continue
		}

		n, err := ImportBackup(src, dst)
		if sqlDB, dbErr := src.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("Error migrating backup")
			continue
		}

		if err := os.Rename(path, path+".migrated"); err != nil {
			log.Error().Err(err).Str("path", path).Msg("Error renaming backup")
		}
		log.Info().Int("campaigns", n).Str("path", path).Msg("Migrated backup")
		migrated = append(migrated, path)
	}
	return migrated, nil
}
