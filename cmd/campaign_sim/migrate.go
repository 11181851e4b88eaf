package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/starshatter/campaign/internal/database"
	"github.com/starshatter/campaign/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [backup-dir]",
	Short: "Import SQLite journal dumps into Postgres",
	Long: `Copies every campaign of each .db file in backup-dir into the Postgres
database configured under db.*. Imported files are renamed with a
.migrated suffix. backup-dir defaults to the directory of
storage.sqlite.dumpPath.`,
	Args: cobra.MaximumNArgs(1),
	RunE: migrateBackups,
}

func migrateBackups(cmd *cobra.Command, args []string) error {
	dir := "."
	if p := viper.GetString("storage.sqlite.dumpPath"); p != "" {
		dir = filepath.Dir(p)
	}
	if len(args) == 1 {
		dir = args[0]
	}

	log := logging.NewZerolog(os.Stderr, "database", viper.GetString("logLevel"))
	m := database.NewManager(log)
	if err := m.ConnectPostgres(cmd.Context()); err != nil {
		return err
	}
	defer m.Close()

	migrated, err := database.MigrateBackups(dir, m.DB, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "migrated %d backups from %s\n", len(migrated), dir)
	return nil
}
