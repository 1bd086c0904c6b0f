package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/vytor/millionaire/internal/config"
	"github.com/vytor/millionaire/internal/db"
	"github.com/vytor/millionaire/internal/logger"
)

// newMigrateCmd applies database migrations.
func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *cfg)
		},
	}
}

func runMigrations(ctx context.Context, cfg config.Config) error {
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()
	logger.Info("migrations applied")
	return nil
}
