package cli

import (
	"context"
	"fmt"
	"io"

	"tasktrack/config"
	"tasktrack/logger"

	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	envFile  string
	logLevel string
}

// RootCmd returns the tasktrack command tree.
func RootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "tasktrack",
		Short:         "Multi-user task tracker API",
		Long:          "Serve the task tracker HTTP API or manage its database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "Path to a .env file loaded before the environment")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")

	cmd.AddCommand(
		ServeCmd(flags),
		MigrateCmd(flags),
	)
	return cmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context, args []string) error {
	cmd := RootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// bootstrap loads configuration and installs the process logger. The closer
// releases the log file, if one is configured.
func bootstrap(flags *globalFlags) (*config.Config, io.Closer, error) {
	cfg, err := config.Load(flags.envFile)
	if err != nil {
		return nil, nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	closer, err := logger.Init(logger.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON, File: cfg.Log.File})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, closer, nil
}
