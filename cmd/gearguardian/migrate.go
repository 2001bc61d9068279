package main

import (
	"context"
	"time"

	"github.com/deppfellow/gearguardian/internal/database"
	"github.com/spf13/cobra"
)

const migrateTimeout = 2 * time.Minute

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
		defer cancel()

		return database.Migrate(ctx, &log, cfg.Database.DSN())
	},
}
