package services

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/vytor/millionaire/internal/errors"
	"github.com/vytor/millionaire/internal/joker"
	"github.com/vytor/millionaire/internal/logger"
	"github.com/vytor/millionaire/internal/models"
	"github.com/vytor/millionaire/internal/repository"
)

// Rand is the source of randomness for question selection, answer shuffling and jokers.
type Rand = joker.Rand

// wrap turns a repository error into an AppError. AppErrors pass through unchanged.
func wrap(err error, resource string, id any) error {
	if err == nil {
		return nil
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError(resource, id)
	}
	return errors.NewInternalError(err)
}

func getGame(ctx context.Context, store repository.Store, gameID int64) (*models.Game, error) {
	game, err := store.Games().Get(ctx, gameID)
	if err != nil {
		if !stderrors.Is(err, sql.ErrNoRows) {
			logger.FromContext(ctx).Error("failed to get game %d: %v", gameID, err)
		}
		return nil, wrap(err, "game", gameID)
	}
	return game, nil
}

func getLevel(ctx context.Context, store repository.Store, levelID int64) (*models.Level, error) {
	level, err := store.Levels().Get(ctx, levelID)
	if err != nil {
		return nil, wrap(err, "level", levelID)
	}
	return level, nil
}

// ownSession loads a session and checks it belongs to userID.
func ownSession(ctx context.Context, store repository.Store, sessionID, userID int64) (*models.GameSession, error) {
	session, err := store.Sessions().Get(ctx, sessionID)
	if err != nil {
		return nil, wrap(err, "gamesession", sessionID)
	}
	if session.UserID != userID {
		return nil, errors.NewInvalidReferenceError("gamesession", sessionID, "user", userID)
	}
	return session, nil
}

func activeLevels(ctx context.Context, store repository.Store, gameID int64) ([]models.Level, error) {
	levels, err := store.Levels().List(ctx, models.LevelFilter{GameID: gameID, States: []string{models.LevelStateActive}})
	if err != nil {
		logger.FromContext(ctx).Error("failed to list active levels of game %d: %v", gameID, err)
		return nil, errors.NewInternalError(err)
	}
	return levels, nil
}

func levelAt(levels []models.Level, position int) *models.Level {
	for i := range levels {
		if levels[i].Position == position {
			return &levels[i]
		}
	}
	return nil
}

func levelByID(levels []models.Level, id int64) *models.Level {
	for i := range levels {
		if levels[i].ID == id {
			return &levels[i]
		}
	}
	return nil
}

// requireCapability fails with FORBIDDEN unless userID holds capability in the game.
func requireCapability(ctx context.Context, dir repository.Directory, gameID, userID int64, capability string) error {
	ok, err := dir.HasCapability(ctx, gameID, userID, capability)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if !ok {
		logger.FromContext(ctx).Warn("user %d lacks %s on game %d", userID, capability, gameID)
		return errors.NewForbiddenError(capability)
	}
	return nil
}
