package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closeLog, err := loadConfig()
		if err != nil {
			return err
		}
		defer closeLog()

		database, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := db.Migrate(context.Background(), database); err != nil {
			return err
		}
		slog.Info("migrations applied", "driver", cfg.Database.Driver)
		return nil
	},
}
