package services

import (
	"context"
	"strings"

	"github.com/vytor/millionaire/internal/errors"
	"github.com/vytor/millionaire/internal/ladder"
	"github.com/vytor/millionaire/internal/logger"
	"github.com/vytor/millionaire/internal/models"
	"github.com/vytor/millionaire/internal/repository"
)

// LevelInput is the editable part of a level.
type LevelInput struct {
	Name     string `json:"name"`
	Score    int    `json:"score"`
	SafeSpot bool   `json:"safe_spot"`
	State    string `json:"state"`
}

func (in LevelInput) validate() error {
	if in.Score < 0 {
		return errors.NewValidationError("score", "must not be negative")
	}
	switch in.State {
	case "", models.LevelStateActive, models.LevelStatePrivate:
	default:
		return errors.NewValidationError("state", "must be 'active' or 'private'")
	}
	return nil
}

// LevelService handles the level ladder of a game
type LevelService interface {
	GetActiveLevels(ctx context.Context, gameID int64) ([]models.Level, error)
	GetLevelByIndex(ctx context.Context, gameID int64, position int) (*models.Level, error)
	CountActiveLevels(ctx context.Context, gameID int64) (int, error)
	FixPositions(ctx context.Context, gameID int64) error
	SwapPositions(ctx context.Context, userID, levelID int64, delta int) (bool, error)
	CreateLevel(ctx context.Context, userID, gameID int64, input LevelInput) (*models.Level, error)
	UpdateLevel(ctx context.Context, userID, levelID int64, input LevelInput) (*models.Level, error)
	DeleteLevel(ctx context.Context, userID, levelID int64) error
	ListCategories(ctx context.Context, levelID int64) ([]models.Category, error)
	AddCategory(ctx context.Context, userID, levelID, bankCategoryID int64, includeSubcategories bool) (*models.Category, error)
	RemoveCategory(ctx context.Context, userID, categoryID int64) error
}

type levelService struct {
	store repository.Store
	dir   repository.Directory
}

// NewLevelService creates a new LevelService
func NewLevelService(store repository.Store, dir repository.Directory) LevelService {
	return &levelService{store: store, dir: dir}
}

func (s *levelService) GetActiveLevels(ctx context.Context, gameID int64) ([]models.Level, error) {
	logger.FromContext(ctx).Debug("getting active levels: game=%d", gameID)
	return activeLevels(ctx, s.store, gameID)
}

func (s *levelService) GetLevelByIndex(ctx context.Context, gameID int64, position int) (*models.Level, error) {
	levels, err := activeLevels(ctx, s.store, gameID)
	if err != nil {
		return nil, err
	}
	level := levelAt(levels, position)
	if level == nil {
		return nil, errors.NewNotFoundError("level at position", position)
	}
	return level, nil
}

func (s *levelService) CountActiveLevels(ctx context.Context, gameID int64) (int, error) {
	count, err := s.store.Levels().Count(ctx, models.LevelFilter{GameID: gameID, States: []string{models.LevelStateActive}})
	if err != nil {
		return 0, errors.NewInternalError(err)
	}
	return count, nil
}

func (s *levelService) FixPositions(ctx context.Context, gameID int64) error {
	return s.store.WithTx(ctx, func(tx repository.Store) error {
		return fixPositions(ctx, tx, gameID)
	})
}

func fixPositions(ctx context.Context, store repository.Store, gameID int64) error {
	levels, err := activeLevels(ctx, store, gameID)
	if err != nil {
		return err
	}
	_, changed := ladder.FixPositions(levels)
	if len(changed) == 0 {
		return nil
	}
	logger.FromContext(ctx).Debug("renumbering %d levels of game %d", len(changed), gameID)
	if err := store.Levels().UpdatePositions(ctx, changed); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *levelService) SwapPositions(ctx context.Context, userID, levelID int64, delta int) (bool, error) {
	log := logger.FromContext(ctx)
	log.Debug("moving level: id=%d, delta=%d", levelID, delta)

	if delta != -1 && delta != 1 {
		return false, errors.NewValidationError("delta", "must be -1 or +1")
	}
	level, err := getLevel(ctx, s.store, levelID)
	if err != nil {
		return false, err
	}
	if err := requireCapability(ctx, s.dir, level.GameID, userID, models.CapabilityManage); err != nil {
		return false, err
	}
	if level.State != models.LevelStateActive {
		return false, errors.NewInvalidStateError("only active levels can be moved")
	}

	moved := false
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := fixPositions(ctx, tx, level.GameID); err != nil {
			return err
		}
		levels, err := activeLevels(ctx, tx, level.GameID)
		if err != nil {
			return err
		}
		positions, ok, err := ladder.Swap(levels, levelID, delta)
		if err != nil {
			return errors.NewInternalError(err)
		}
		if !ok {
			return nil
		}
		moved = true
		if err := tx.Levels().UpdatePositions(ctx, positions); err != nil {
			return errors.NewInternalError(err)
		}
		return fixPositions(ctx, tx, level.GameID)
	})
	if err != nil {
		log.Error("failed to move level %d: %v", levelID, err)
		return false, err
	}
	return moved, nil
}

func (s *levelService) CreateLevel(ctx context.Context, userID, gameID int64, input LevelInput) (*models.Level, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating level: game=%d, score=%d", gameID, input.Score)

	if err := input.validate(); err != nil {
		return nil, err
	}
	if _, err := getGame(ctx, s.store, gameID); err != nil {
		return nil, err
	}
	if err := requireCapability(ctx, s.dir, gameID, userID, models.CapabilityManage); err != nil {
		return nil, err
	}

	level := models.Level{
		GameID:   gameID,
		State:    input.State,
		Name:     strings.TrimSpace(input.Name),
		Score:    input.Score,
		SafeSpot: input.SafeSpot,
	}
	if level.State == "" {
		level.State = models.LevelStateActive
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		count, err := tx.Levels().Count(ctx, models.LevelFilter{GameID: gameID, States: []string{models.LevelStateActive}})
		if err != nil {
			return errors.NewInternalError(err)
		}
		// New levels go on top of the ladder.
		level.Position = count
		id, err := tx.Levels().Insert(ctx, level)
		if err != nil {
			return errors.NewInternalError(err)
		}
		level.ID = id
		return nil
	})
	if err != nil {
		log.Error("failed to create level: %v", err)
		return nil, err
	}
	log.Info("level created: id=%d, game=%d, position=%d", level.ID, gameID, level.Position)
	return &level, nil
}

func (s *levelService) UpdateLevel(ctx context.Context, userID, levelID int64, input LevelInput) (*models.Level, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating level: id=%d", levelID)

	if err := input.validate(); err != nil {
		return nil, err
	}
	level, err := getLevel(ctx, s.store, levelID)
	if err != nil {
		return nil, err
	}
	if err := requireCapability(ctx, s.dir, level.GameID, userID, models.CapabilityManage); err != nil {
		return nil, err
	}
	if level.State == models.LevelStateDeleted {
		return nil, errors.NewInvalidStateError("deleted levels cannot be edited")
	}

	wasActive := level.State == models.LevelStateActive
	level.Name = strings.TrimSpace(input.Name)
	level.Score = input.Score
	level.SafeSpot = input.SafeSpot
	if input.State != "" {
		level.State = input.State
	}

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if !wasActive && level.State == models.LevelStateActive {
			count, err := tx.Levels().Count(ctx, models.LevelFilter{GameID: level.GameID, States: []string{models.LevelStateActive}})
			if err != nil {
				return errors.NewInternalError(err)
			}
			level.Position = count
		}
		if err := tx.Levels().Update(ctx, *level); err != nil {
			return errors.NewInternalError(err)
		}
		return fixPositions(ctx, tx, level.GameID)
	})
	if err != nil {
		log.Error("failed to update level %d: %v", levelID, err)
		return nil, err
	}
	return getLevel(ctx, s.store, levelID)
}

func (s *levelService) DeleteLevel(ctx context.Context, userID, levelID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting level: id=%d", levelID)

	level, err := getLevel(ctx, s.store, levelID)
	if err != nil {
		return err
	}
	if err := requireCapability(ctx, s.dir, level.GameID, userID, models.CapabilityManage); err != nil {
		return err
	}
	if level.State == models.LevelStateDeleted {
		return nil
	}

	level.State = models.LevelStateDeleted
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Levels().Update(ctx, *level); err != nil {
			return errors.NewInternalError(err)
		}
		return fixPositions(ctx, tx, level.GameID)
	})
	if err != nil {
		log.Error("failed to delete level %d: %v", levelID, err)
		return err
	}
	log.Info("level deleted: id=%d, game=%d", levelID, level.GameID)
	return nil
}

func (s *levelService) ListCategories(ctx context.Context, levelID int64) ([]models.Category, error) {
	if _, err := getLevel(ctx, s.store, levelID); err != nil {
		return nil, err
	}
	categories, err := s.store.Categories().ListByLevel(ctx, levelID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return categories, nil
}

func (s *levelService) AddCategory(ctx context.Context, userID, levelID, bankCategoryID int64, includeSubcategories bool) (*models.Category, error) {
	log := logger.FromContext(ctx)
	log.Debug("adding category: level=%d, mdl_category=%d", levelID, bankCategoryID)

	if bankCategoryID <= 0 {
		return nil, errors.NewValidationError("mdl_category", "must be a positive id")
	}
	level, err := getLevel(ctx, s.store, levelID)
	if err != nil {
		return nil, err
	}
	if err := requireCapability(ctx, s.dir, level.GameID, userID, models.CapabilityManage); err != nil {
		return nil, err
	}

	category := models.Category{LevelID: levelID, BankCategoryID: bankCategoryID, IncludeSubcategories: includeSubcategories}
	id, err := s.store.Categories().Insert(ctx, category)
	if err != nil {
		log.Error("failed to add category: %v", err)
		return nil, errors.NewInternalError(err)
	}
	category.ID = id
	return &category, nil
}

func (s *levelService) RemoveCategory(ctx context.Context, userID, categoryID int64) error {
	category, err := s.store.Categories().Get(ctx, categoryID)
	if err != nil {
		return wrap(err, "category", categoryID)
	}
	level, err := getLevel(ctx, s.store, category.LevelID)
	if err != nil {
		return err
	}
	if err := requireCapability(ctx, s.dir, level.GameID, userID, models.CapabilityManage); err != nil {
		return err
	}
	if err := s.store.Categories().Delete(ctx, categoryID); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}
