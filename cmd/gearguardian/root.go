package main

import (
	"fmt"

	"github.com/deppfellow/gearguardian/internal/config"
	"github.com/deppfellow/gearguardian/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfg           *config.Config
	loggerService *logger.LoggerService
	log           zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gearguardian",
	Short: "Fitness activity, gear and health tracking backend",
	Long: `GearGuardian imports activities from Strava and Garmin Connect, tracks
gear usage across them and records body measurements.

Configuration comes from defaults, an optional YAML file named by
GEARGUARDIAN_CONFIG_FILE and GEARGUARDIAN_* environment variables.

  $ gearguardian migrate   # apply database migrations
  $ gearguardian serve     # run the API, job worker and scheduler`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		loggerService = logger.NewLoggerService(cfg.Observability)
		log = logger.NewLoggerWithService(cfg.Observability, loggerService)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		loggerService.Shutdown()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}
