package services

import (
	"context"
	"strings"

	"github.com/vytor/millionaire/internal/cache"
	"github.com/vytor/millionaire/internal/errors"
	"github.com/vytor/millionaire/internal/i18n"
	"github.com/vytor/millionaire/internal/logger"
	"github.com/vytor/millionaire/internal/models"
	"github.com/vytor/millionaire/internal/repository"
)

// GameInput is the editable configuration of a game.
type GameInput struct {
	Name                   string `json:"name"`
	CurrencyForLevels      string `json:"currency_for_levels"`
	ContinueOnFailure      bool   `json:"continue_on_failure"`
	QuestionRepeatable     bool   `json:"question_repeatable"`
	QuestionShuffleAnswers bool   `json:"question_shuffle_answers"`
	HighscoreCount         int    `json:"highscore_count"`
	HighscoreMode          string `json:"highscore_mode"`
	HighscoreTeachers      bool   `json:"highscore_teachers"`
	CompletionRounds       int    `json:"completion_rounds"`
	CompletionPoints       int    `json:"completion_points"`
}

func (in GameInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.NewValidationError("name", "is required")
	}
	if !models.ValidHighscoreMode(in.HighscoreMode) {
		return errors.NewValidationError("highscore_mode", "must be 'best', 'last' or 'average'")
	}
	if in.HighscoreCount < 0 {
		return errors.NewValidationError("highscore_count", "must not be negative")
	}
	if in.CompletionRounds < 0 {
		return errors.NewValidationError("completion_rounds", "must not be negative")
	}
	if in.CompletionPoints < 0 {
		return errors.NewValidationError("completion_points", "must not be negative")
	}
	return nil
}

// GameService handles game configuration and administrative resets
type GameService interface {
	GetGame(ctx context.Context, gameID, userID int64) (*models.GameView, error)
	ListGames(ctx context.Context) ([]models.Game, error)
	UpdateGame(ctx context.Context, userID, gameID int64, input GameInput) (*models.Game, error)
	ResetProgress(ctx context.Context, userID, gameID int64) error
	ResetLevels(ctx context.Context, userID, gameID int64) error
}

type gameService struct {
	store  repository.Store
	dir    repository.Directory
	scores cache.ScoreCache
}

// NewGameService creates a new GameService
func NewGameService(store repository.Store, dir repository.Directory, scores cache.ScoreCache) GameService {
	return &gameService{store: store, dir: dir, scores: scores}
}

func (s *gameService) GetGame(ctx context.Context, gameID, userID int64) (*models.GameView, error) {
	game, err := getGame(ctx, s.store, gameID)
	if err != nil {
		return nil, err
	}
	manager, err := s.dir.HasCapability(ctx, gameID, userID, models.CapabilityManage)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	count, err := s.store.Levels().Count(ctx, models.LevelFilter{GameID: gameID, States: []string{models.LevelStateActive}})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &models.GameView{
		Game:         *game,
		Manager:      manager,
		ActiveLevels: count,
		Strings:      i18n.All(i18n.FromContext(ctx)),
	}, nil
}

func (s *gameService) ListGames(ctx context.Context) ([]models.Game, error) {
	games, err := s.store.Games().List(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list games: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return games, nil
}

func (s *gameService) UpdateGame(ctx context.Context, userID, gameID int64, input GameInput) (*models.Game, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating game: id=%d", gameID)

	if err := input.validate(); err != nil {
		return nil, err
	}
	game, err := getGame(ctx, s.store, gameID)
	if err != nil {
		return nil, err
	}
	if err := requireCapability(ctx, s.dir, gameID, userID, models.CapabilityManage); err != nil {
		return nil, err
	}

	game.Name = strings.TrimSpace(input.Name)
	game.CurrencyForLevels = input.CurrencyForLevels
	game.ContinueOnFailure = input.ContinueOnFailure
	game.QuestionRepeatable = input.QuestionRepeatable
	game.QuestionShuffleAnswers = input.QuestionShuffleAnswers
	game.HighscoreCount = input.HighscoreCount
	game.HighscoreMode = input.HighscoreMode
	game.HighscoreTeachers = input.HighscoreTeachers
	game.CompletionRounds = input.CompletionRounds
	game.CompletionPoints = input.CompletionPoints

	if err := s.store.Games().Update(ctx, *game); err != nil {
		log.Error("failed to update game %d: %v", gameID, err)
		return nil, errors.NewInternalError(err)
	}
	// Mode and teacher visibility change the leaderboard.
	s.scores.Invalidate(ctx, gameID)
	log.Info("game updated: id=%d", gameID)
	return getGame(ctx, s.store, gameID)
}

func (s *gameService) ResetProgress(ctx context.Context, userID, gameID int64) error {
	return s.reset(ctx, userID, gameID, false)
}

func (s *gameService) ResetLevels(ctx context.Context, userID, gameID int64) error {
	return s.reset(ctx, userID, gameID, true)
}

func (s *gameService) reset(ctx context.Context, userID, gameID int64, levels bool) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{"game_id": gameID, "levels": levels})
	log.Debug("resetting game")

	if _, err := getGame(ctx, s.store, gameID); err != nil {
		return err
	}
	if err := requireCapability(ctx, s.dir, gameID, userID, models.CapabilityManage); err != nil {
		return err
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Jokers().DeleteByGame(ctx, gameID); err != nil {
			return errors.NewInternalError(err)
		}
		if err := tx.Questions().DeleteByGame(ctx, gameID); err != nil {
			return errors.NewInternalError(err)
		}
		if err := tx.Sessions().DeleteByGame(ctx, gameID); err != nil {
			return errors.NewInternalError(err)
		}
		if !levels {
			return nil
		}
		if err := tx.Categories().DeleteByGame(ctx, gameID); err != nil {
			return errors.NewInternalError(err)
		}
		if err := tx.Levels().DeleteByGame(ctx, gameID); err != nil {
			return errors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to reset game: %v", err)
		return err
	}
	s.scores.Invalidate(ctx, gameID)
	log.Info("game reset")
	return nil
}
