package cmd

import (
	"github.com/spf13/cobra"

	"github.com/DerickDutraDev/store-GBS/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Apply the versioned SQL migrations to a PostgreSQL database, or create
the tables from the models for SQLite.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		if cfg.DBDriver == "postgres" {
			return db.RunMigrations(cfg.DatabaseURL, log)
		}
		gdb, err := db.Open(cfg.DBDriver, cfg.DatabaseURL, log.Named("gorm"))
		if err != nil {
			return err
		}
		defer db.Close(gdb)
		if err := db.AutoMigrate(gdb); err != nil {
			return err
		}
		log.Info("schema up to date")
		return nil
	},
}
