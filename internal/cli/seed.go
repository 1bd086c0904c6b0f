package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vytor/millionaire/internal/config"
	"github.com/vytor/millionaire/internal/db"
	"github.com/vytor/millionaire/internal/logger"
	"github.com/vytor/millionaire/internal/questionbank"
	"github.com/vytor/millionaire/internal/repository/sqlite"
)

// newSeedCmd loads games, the question bank and users from a YAML file.
func newSeedCmd(cfg *config.Config) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import games, questions and users from a YAML seed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = cfg.SeedPath
			}
			if file == "" {
				return fmt.Errorf("no seed file given, use --file or SEED_PATH")
			}
			return runSeed(cmd.Context(), cfg.DBPath, file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the YAML seed file")
	return cmd
}

func runSeed(ctx context.Context, dbPath, file string) error {
	database, err := db.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer database.Close()
	return seedInto(ctx, database, file)
}

func seedInto(ctx context.Context, database *db.DB, file string) error {
	seed, err := questionbank.Load(file)
	if err != nil {
		return fmt.Errorf("load %s: %w", file, err)
	}
	importer := questionbank.NewImporter(
		sqlite.NewStore(database.DB),
		sqlite.NewBankRepository(database.DB),
		sqlite.NewDirectory(database.DB),
	)
	res, err := importer.Import(ctx, seed)
	if err != nil {
		return err
	}
	logger.Info("seeded %s: %d games created, %d skipped, %d questions, %d users",
		file, res.GamesCreated, res.GamesSkipped, res.Questions, res.Users)
	return nil
}
