package services

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/vytor/millionaire/internal/cache"
	"github.com/vytor/millionaire/internal/errors"
	"github.com/vytor/millionaire/internal/ladder"
	"github.com/vytor/millionaire/internal/logger"
	"github.com/vytor/millionaire/internal/models"
	"github.com/vytor/millionaire/internal/repository"
)

// ScoreService aggregates finished sessions into totals and leaderboards
type ScoreService interface {
	// CalculateTotalScore aggregates the user's finished sessions. An empty mode uses the game's mode.
	CalculateTotalScore(ctx context.Context, gameID, userID int64, mode string) (int, error)
	GetGlobalScores(ctx context.Context, gameID int64) ([]models.ScoreRow, error)
	GetCompletionState(ctx context.Context, gameID, userID int64) (*models.CompletionState, error)
}

type scoreService struct {
	store  repository.Store
	dir    repository.Directory
	scores cache.ScoreCache
	group  singleflight.Group
}

// NewScoreService creates a new ScoreService
func NewScoreService(store repository.Store, dir repository.Directory, scores cache.ScoreCache) ScoreService {
	return &scoreService{store: store, dir: dir, scores: scores}
}

func (s *scoreService) finishedSessions(ctx context.Context, gameID, userID int64) ([]models.GameSession, error) {
	sessions, err := s.store.Sessions().List(ctx, models.SessionFilter{
		GameID: gameID,
		UserID: userID,
		States: []string{models.SessionStateFinished},
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return sessions, nil
}

func (s *scoreService) CalculateTotalScore(ctx context.Context, gameID, userID int64, mode string) (int, error) {
	game, err := getGame(ctx, s.store, gameID)
	if err != nil {
		return 0, err
	}
	if mode == "" {
		mode = game.HighscoreMode
	}
	if !models.ValidHighscoreMode(mode) {
		return 0, errors.NewValidationError("mode", "unknown highscore mode "+mode)
	}
	sessions, err := s.finishedSessions(ctx, gameID, userID)
	if err != nil {
		return 0, err
	}
	scores := make([]int, 0, len(sessions))
	for _, session := range sessions {
		scores = append(scores, session.Score)
	}
	return ladder.Aggregate(mode, scores), nil
}

func (s *scoreService) GetGlobalScores(ctx context.Context, gameID int64) ([]models.ScoreRow, error) {
	log := logger.FromContext(ctx).WithField("game_id", gameID)

	if rows, ok := s.scores.Get(ctx, gameID); ok {
		return rows, nil
	}

	v, err, shared := s.group.Do(strconv.FormatInt(gameID, 10), func() (any, error) {
		rows, err := s.buildScores(ctx, gameID)
		if err != nil {
			return nil, err
		}
		s.scores.Set(ctx, gameID, rows)
		return rows, nil
	})
	if err != nil {
		log.Error("failed to build leaderboard: %v", err)
		return nil, err
	}
	if shared {
		log.Debug("leaderboard rebuild shared with a concurrent request")
	}
	rows := v.([]models.ScoreRow)
	// Callers of a shared rebuild must not see each other's mutations.
	out := make([]models.ScoreRow, len(rows))
	copy(out, rows)
	return out, nil
}

func (s *scoreService) buildScores(ctx context.Context, gameID int64) ([]models.ScoreRow, error) {
	game, err := getGame(ctx, s.store, gameID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.finishedSessions(ctx, gameID, 0)
	if err != nil {
		return nil, err
	}

	aggregates := ladder.AggregateSessions(game.HighscoreMode, sessions)
	rows := make([]models.ScoreRow, 0, len(aggregates))
	for _, agg := range aggregates {
		name, err := s.dir.UserName(ctx, agg.UserID)
		if err != nil || name == "" {
			name = fmt.Sprintf("user %d", agg.UserID)
		}
		teacher, err := s.dir.HasCapability(ctx, gameID, agg.UserID, models.CapabilityManage)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		rows = append(rows, models.ScoreRow{
			Score:    agg.Score,
			Sessions: agg.Sessions,
			UserID:   agg.UserID,
			UserName: name,
			Teacher:  teacher,
		})
	}
	logger.FromContext(ctx).Debug("leaderboard built: game=%d, rows=%d", gameID, len(rows))
	return ladder.Rank(rows, game.HighscoreTeachers), nil
}

func (s *scoreService) GetCompletionState(ctx context.Context, gameID, userID int64) (*models.CompletionState, error) {
	game, err := getGame(ctx, s.store, gameID)
	if err != nil {
		return nil, err
	}
	state := &models.CompletionState{
		RoundsRequired: game.CompletionRounds,
		PointsRequired: game.CompletionPoints,
	}
	state.Applicable = game.CompletionRounds > 0 || game.CompletionPoints > 0
	if !state.Applicable {
		return state, nil
	}

	sessions, err := s.finishedSessions(ctx, gameID, userID)
	if err != nil {
		return nil, err
	}
	scores := make([]int, 0, len(sessions))
	for _, session := range sessions {
		scores = append(scores, session.Score)
	}
	state.RoundsFinished = len(sessions)
	state.PointsReached = ladder.Aggregate(game.HighscoreMode, scores)

	state.Completed = true
	if game.CompletionRounds > 0 && state.RoundsFinished < game.CompletionRounds {
		state.Completed = false
	}
	if game.CompletionPoints > 0 && state.PointsReached < game.CompletionPoints {
		state.Completed = false
	}
	return state, nil
}
