package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/millionaire/internal/logger"
	"github.com/vytor/millionaire/internal/models"
	"github.com/vytor/millionaire/internal/repository"
)

const gameColumns = `id, created_at, modified_at, name, currency_for_levels, continue_on_failure, question_repeatable,
       question_shuffle_answers, highscore_count, highscore_mode, highscore_teachers, completion_rounds, completion_points`

type gameRepository struct {
	q querier
}

// NewGameRepository creates a new GameRepository implementation
func NewGameRepository(db *sql.DB) repository.GameRepository {
	return &gameRepository{q: db}
}

func scanGame(row rowScanner) (models.Game, error) {
	var g models.Game
	err := row.Scan(&g.ID, &g.CreatedAt, &g.ModifiedAt, &g.Name, &g.CurrencyForLevels, &g.ContinueOnFailure,
		&g.QuestionRepeatable, &g.QuestionShuffleAnswers, &g.HighscoreCount, &g.HighscoreMode,
		&g.HighscoreTeachers, &g.CompletionRounds, &g.CompletionPoints)
	return g, err
}

func (r *gameRepository) Get(ctx context.Context, id int64) (*models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("getting game: id=%d", id)

	g, err := scanGame(r.q.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("game not found: id=%d", id)
		} else {
			log.Error("failed to get game: %v", err)
		}
		return nil, err
	}
	return &g, nil
}

func (r *gameRepository) List(ctx context.Context) ([]models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")

	rows, err := r.q.QueryContext(ctx, `SELECT `+gameColumns+` FROM games ORDER BY id`)
	if err != nil {
		log.Error("failed to list games: %v", err)
		return nil, err
	}
	defer rows.Close()
	var games []models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			log.Error("failed to scan game row: %v", err)
			return nil, err
		}
		games = append(games, g)
	}
	log.Debug("found %d games", len(games))
	return games, rows.Err()
}

func (r *gameRepository) Insert(ctx context.Context, g models.Game) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("inserting game: name=%s", g.Name)

	stampCreate(&g.CreatedAt, &g.ModifiedAt)
	values := map[string]any{
		"created_at":               g.CreatedAt,
		"modified_at":              g.ModifiedAt,
		"name":                     g.Name,
		"currency_for_levels":      g.CurrencyForLevels,
		"continue_on_failure":      g.ContinueOnFailure,
		"question_repeatable":      g.QuestionRepeatable,
		"question_shuffle_answers": g.QuestionShuffleAnswers,
		"highscore_count":          g.HighscoreCount,
		"highscore_mode":           g.HighscoreMode,
		"highscore_teachers":       g.HighscoreTeachers,
		"completion_rounds":        g.CompletionRounds,
		"completion_points":        g.CompletionPoints,
	}
	// Seed files carry their own game ids.
	if g.ID != 0 {
		values["id"] = g.ID
	}
	query := sqlBuilder.Insert("games").SetMap(values)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}
	res, err := r.q.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}
		log.Error("failed to insert game: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *gameRepository) Update(ctx context.Context, g models.Game) error {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("updating game: id=%d", g.ID)

	_, err := r.q.ExecContext(ctx, `
UPDATE games
SET modified_at = ?, name = ?, currency_for_levels = ?, continue_on_failure = ?, question_repeatable = ?,
    question_shuffle_answers = ?, highscore_count = ?, highscore_mode = ?, highscore_teachers = ?,
    completion_rounds = ?, completion_points = ?
WHERE id = ?
`, now(), g.Name, g.CurrencyForLevels, g.ContinueOnFailure, g.QuestionRepeatable, g.QuestionShuffleAnswers,
		g.HighscoreCount, g.HighscoreMode, g.HighscoreTeachers, g.CompletionRounds, g.CompletionPoints, g.ID)
	if err != nil {
		log.Error("failed to update game: %v", err)
	}
	return err
}
