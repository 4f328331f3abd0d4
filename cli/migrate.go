package cli

import (
	"context"
	"fmt"

	"tasktrack/db"
	"tasktrack/logger"

	"github.com/spf13/cobra"
)

func MigrateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  "Apply every pending schema migration for the configured database driver and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), flags)
		},
	}
}

func runMigrate(ctx context.Context, flags *globalFlags) error {
	cfg, closer, err := bootstrap(flags)
	if err != nil {
		return err
	}
	defer closer.Close()

	log := logger.Log
	handle, err := db.Open(ctx, cfg.DB, log)
	if err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}
	defer handle.Close()

	return db.RunMigrations(ctx, handle, cfg.DB.Driver, log)
}
