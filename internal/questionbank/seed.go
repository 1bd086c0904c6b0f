// Package questionbank loads games, the host question bank and users from a YAML seed file.
package questionbank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vytor/millionaire/internal/logger"
	"github.com/vytor/millionaire/internal/models"
	"github.com/vytor/millionaire/internal/repository"
)

// Seed is the content of a seed file.
type Seed struct {
	Users []SeedUser `yaml:"users"`
	Bank  struct {
		Categories []models.BankCategory `yaml:"categories"`
		Questions  []models.BankQuestion `yaml:"questions"`
	} `yaml:"bank"`
	Games []SeedGame `yaml:"games"`
}

type SeedUser struct {
	ID           int64  `yaml:"id"`
	Name         string `yaml:"name"`
	Capabilities []struct {
		Game       int64  `yaml:"game"`
		Capability string `yaml:"capability"`
	} `yaml:"capabilities"`
}

// SeedGame is a game with its ladder. Unset options take the game defaults.
type SeedGame struct {
	ID                     int64       `yaml:"id"`
	Name                   string      `yaml:"name"`
	CurrencyForLevels      *string     `yaml:"currency_for_levels"`
	ContinueOnFailure      bool        `yaml:"continue_on_failure"`
	QuestionRepeatable     *bool       `yaml:"question_repeatable"`
	QuestionShuffleAnswers *bool       `yaml:"question_shuffle_answers"`
	HighscoreCount         *int        `yaml:"highscore_count"`
	HighscoreMode          string      `yaml:"highscore_mode"`
	HighscoreTeachers      bool        `yaml:"highscore_teachers"`
	CompletionRounds       int         `yaml:"completion_rounds"`
	CompletionPoints       int         `yaml:"completion_points"`
	Levels                 []SeedLevel `yaml:"levels"`
}

type SeedLevel struct {
	Name       string `yaml:"name"`
	Score      int    `yaml:"score"`
	SafeSpot   bool   `yaml:"safe_spot"`
	State      string `yaml:"state"`
	Categories []struct {
		Category      int64 `yaml:"category"`
		Subcategories bool  `yaml:"subcategories"`
	} `yaml:"categories"`
}

func (g SeedGame) game() models.Game {
	game := models.NewGame(g.Name)
	game.ID = g.ID
	if g.CurrencyForLevels != nil {
		game.CurrencyForLevels = *g.CurrencyForLevels
	}
	game.ContinueOnFailure = g.ContinueOnFailure
	if g.QuestionRepeatable != nil {
		game.QuestionRepeatable = *g.QuestionRepeatable
	}
	if g.QuestionShuffleAnswers != nil {
		game.QuestionShuffleAnswers = *g.QuestionShuffleAnswers
	}
	if g.HighscoreCount != nil {
		game.HighscoreCount = *g.HighscoreCount
	}
	if g.HighscoreMode != "" {
		game.HighscoreMode = g.HighscoreMode
	}
	game.HighscoreTeachers = g.HighscoreTeachers
	game.CompletionRounds = g.CompletionRounds
	game.CompletionPoints = g.CompletionPoints
	return game
}

// Load reads a seed file from path.
func Load(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and checks seed content.
func Parse(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if err := seed.validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

func (s *Seed) validate() error {
	for i, u := range s.Users {
		if u.ID <= 0 {
			return fmt.Errorf("users[%d]: id must be positive", i)
		}
	}
	for i, c := range s.Bank.Categories {
		if c.ID <= 0 {
			return fmt.Errorf("bank.categories[%d]: id must be positive", i)
		}
	}
	for i, q := range s.Bank.Questions {
		if q.ID <= 0 || q.CategoryID <= 0 {
			return fmt.Errorf("bank.questions[%d]: id and category are required", i)
		}
		for j, a := range q.Answers {
			if a.ID <= 0 {
				return fmt.Errorf("bank.questions[%d].answers[%d]: id must be positive", i, j)
			}
		}
	}
	for i, g := range s.Games {
		if g.ID <= 0 {
			return fmt.Errorf("games[%d]: id must be positive", i)
		}
		if g.HighscoreMode != "" && !models.ValidHighscoreMode(g.HighscoreMode) {
			return fmt.Errorf("games[%d]: unknown highscore_mode %q", i, g.HighscoreMode)
		}
		for j, l := range g.Levels {
			switch l.State {
			case "", models.LevelStateActive, models.LevelStatePrivate:
			default:
				return fmt.Errorf("games[%d].levels[%d]: unknown state %q", i, j, l.State)
			}
		}
	}
	return nil
}

// Result counts what an import wrote.
type Result struct {
	Users        int
	Categories   int
	Questions    int
	GamesCreated int
	GamesSkipped int
	Levels       int
}

// Importer writes seed content. Bank and user rows are upserted; games that already exist are left alone.
type Importer struct {
	store repository.Store
	bank  repository.BankWriter
	dir   repository.Directory
}

func NewImporter(store repository.Store, bank repository.BankWriter, dir repository.Directory) *Importer {
	return &Importer{store: store, bank: bank, dir: dir}
}

func (im *Importer) Import(ctx context.Context, seed *Seed) (Result, error) {
	log := logger.FromContext(ctx).WithPrefix("seed")
	var res Result

	for _, u := range seed.Users {
		if err := im.dir.UpsertUser(ctx, u.ID, u.Name); err != nil {
			return res, fmt.Errorf("user %d: %w", u.ID, err)
		}
		for _, c := range u.Capabilities {
			if err := im.dir.Grant(ctx, c.Game, u.ID, c.Capability); err != nil {
				return res, fmt.Errorf("grant %s to user %d: %w", c.Capability, u.ID, err)
			}
		}
		res.Users++
	}

	for _, c := range seed.Bank.Categories {
		if err := im.bank.UpsertCategory(ctx, c); err != nil {
			return res, fmt.Errorf("bank category %d: %w", c.ID, err)
		}
		res.Categories++
	}
	for _, q := range seed.Bank.Questions {
		if q.QType == "" {
			q.QType = models.QTypeSingleChoice
		}
		if err := im.bank.UpsertQuestion(ctx, q); err != nil {
			return res, fmt.Errorf("bank question %d: %w", q.ID, err)
		}
		res.Questions++
	}

	for _, g := range seed.Games {
		created, levels, err := im.importGame(ctx, g)
		if err != nil {
			return res, fmt.Errorf("game %d: %w", g.ID, err)
		}
		if !created {
			log.Info("game %d already exists, skipping", g.ID)
			res.GamesSkipped++
			continue
		}
		res.GamesCreated++
		res.Levels += levels
	}

	log.Info("seed imported: users=%d, categories=%d, questions=%d, games=%d, levels=%d",
		res.Users, res.Categories, res.Questions, res.GamesCreated, res.Levels)
	return res, nil
}

func (im *Importer) importGame(ctx context.Context, g SeedGame) (bool, int, error) {
	created := false
	levels := 0
	err := im.store.WithTx(ctx, func(tx repository.Store) error {
		_, err := tx.Games().Get(ctx, g.ID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if _, err := tx.Games().Insert(ctx, g.game()); err != nil {
			return err
		}
		created = true

		position := 0
		for _, sl := range g.Levels {
			level := models.Level{
				GameID:   g.ID,
				State:    sl.State,
				Name:     sl.Name,
				Score:    sl.Score,
				SafeSpot: sl.SafeSpot,
			}
			if level.State == "" {
				level.State = models.LevelStateActive
			}
			if level.State == models.LevelStateActive {
				level.Position = position
				position++
			}
			levelID, err := tx.Levels().Insert(ctx, level)
			if err != nil {
				return err
			}
			for _, c := range sl.Categories {
				category := models.Category{LevelID: levelID, BankCategoryID: c.Category, IncludeSubcategories: c.Subcategories}
				if _, err := tx.Categories().Insert(ctx, category); err != nil {
					return err
				}
			}
			levels++
		}
		return nil
	})
	return created, levels, err
}
