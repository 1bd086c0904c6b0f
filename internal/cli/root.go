package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/vytor/millionaire/internal/config"
	"github.com/vytor/millionaire/internal/logger"
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:           "millionaire",
		Short:         "Ladder quiz game server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			setupLogger(cfg)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), &cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the sqlite database")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "DEBUG, INFO, WARN or ERROR")
	cmd.AddCommand(newServeCmd(&cfg))
	cmd.AddCommand(newMigrateCmd(&cfg))
	cmd.AddCommand(newSeedCmd(&cfg))
	return cmd
}

func setupLogger(cfg config.Config) {
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithJSON(strings.EqualFold(cfg.LogFormat, "json")),
	)
	logger.SetDefault(log)
}
