package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rogerbox/rogerbox/internal/adapters/sqldb"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Applique les migrations SQL puis quitte",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		// Open applique déjà les migrations.
		db, err := sqldb.Open(context.Background(), cfg.DB.Driver, cfg.DB.DSN)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		defer func() { _ = db.Close() }()
		logger.Info().Str("driver", cfg.DB.Driver).Msg("migrations applied")
		return nil
	},
}
