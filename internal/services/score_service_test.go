package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/millionaire/internal/errors"
	"github.com/vytor/millionaire/internal/models"
	"github.com/vytor/millionaire/internal/repository/sqlite"
	"github.com/vytor/millionaire/internal/testutil"
	"github.com/vytor/millionaire/internal/testutil/mocks"
)

type ScoreServiceSuite struct {
	suite.Suite
	db     *sql.DB
	scores *mocks.MockScoreCache
	ctx    context.Context
	seq    int
}

func (s *ScoreServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.scores = new(mocks.MockScoreCache)
	s.ctx = context.Background()
	s.seq = 0
}

func (s *ScoreServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ScoreServiceSuite) service() ScoreService {
	return NewScoreService(sqlite.NewStore(s.db), sqlite.NewDirectory(s.db), s.scores)
}

// addSession inserts a session with strictly increasing creation times.
func (s *ScoreServiceSuite) addSession(gameID, userID int64, score int, state string) {
	s.seq++
	ts := fmt.Sprintf("2024-01-01 00:00:%02d", s.seq)
	testutil.MustExec(s.T(), s.db, `
INSERT INTO gamesessions (created_at, modified_at, game, mdl_user, score, answers_total, state)
VALUES (?, ?, ?, ?, ?, 1, ?)
`, ts, ts, gameID, userID, score, state)
}

// seedScores: alice(1) 30,10,15; bob(2) 20; teacher(3) 50; user 4 without a name 5.
func (s *ScoreServiceSuite) seedScores(game models.Game) int64 {
	gameID, _ := testutil.SeedGame(s.T(), s.db, game, testutil.LadderLevel{Score: 10})
	testutil.MustExec(s.T(), s.db, `INSERT INTO users (id, name) VALUES (1, 'alice'), (2, 'bob'), (3, 'teacher')`)
	testutil.MustExec(s.T(), s.db, `INSERT INTO user_capabilities (user, game, capability) VALUES (3, ?, 'manage')`, gameID)

	s.addSession(gameID, 1, 30, models.SessionStateFinished)
	s.addSession(gameID, 2, 20, models.SessionStateFinished)
	s.addSession(gameID, 1, 10, models.SessionStateFinished)
	s.addSession(gameID, 3, 50, models.SessionStateFinished)
	s.addSession(gameID, 1, 15, models.SessionStateFinished)
	s.addSession(gameID, 4, 5, models.SessionStateFinished)
	s.addSession(gameID, 2, 99, models.SessionStateDumped)
	s.addSession(gameID, 1, 100, models.SessionStateProgress)
	return gameID
}

func (s *ScoreServiceSuite) TestCalculateTotalScore() {
	gameID := s.seedScores(models.NewGame("scores"))
	service := s.service()

	tests := []struct {
		mode string
		want int
	}{
		{"", 30},
		{models.HighscoreModeBest, 30},
		{models.HighscoreModeLast, 15},
		{models.HighscoreModeAverage, 18},
	}
	for _, tt := range tests {
		got, err := service.CalculateTotalScore(s.ctx, gameID, 1, tt.mode)
		s.Require().NoError(err, tt.mode)
		s.Equal(tt.want, got, tt.mode)
	}

	none, err := service.CalculateTotalScore(s.ctx, gameID, 42, "")
	s.NoError(err)
	s.Equal(0, none)

	_, err = service.CalculateTotalScore(s.ctx, gameID, 1, "median")
	s.True(errors.HasCode(err, errors.ErrCodeValidation))
}

func (s *ScoreServiceSuite) TestGlobalScoresHideTeachers() {
	gameID := s.seedScores(models.NewGame("scores"))
	s.scores.On("Get", mock.Anything, gameID).Return(nil, false).Once()
	s.scores.On("Set", mock.Anything, gameID, mock.Anything).Once()

	rows, err := s.service().GetGlobalScores(s.ctx, gameID)
	s.Require().NoError(err)
	s.Require().Len(rows, 4)

	s.Equal(int64(3), rows[0].UserID)
	s.True(rows[0].Teacher)
	s.Equal(0, rows[0].Rank, "hidden rows keep the current rank")

	s.Equal(models.ScoreRow{Rank: 1, Score: 30, Sessions: 3, UserID: 1, UserName: "alice"}, rows[1])
	s.Equal(models.ScoreRow{Rank: 2, Score: 20, Sessions: 1, UserID: 2, UserName: "bob"}, rows[2])
	s.Equal(3, rows[3].Rank)
	s.Equal("user 4", rows[3].UserName)

	s.scores.AssertExpectations(s.T())
}

func (s *ScoreServiceSuite) TestGlobalScoresShowTeachers() {
	game := models.NewGame("scores")
	game.HighscoreTeachers = true
	game.HighscoreMode = models.HighscoreModeLast
	gameID := s.seedScores(game)
	s.scores.On("Get", mock.Anything, gameID).Return(nil, false)
	s.scores.On("Set", mock.Anything, gameID, mock.Anything)

	rows, err := s.service().GetGlobalScores(s.ctx, gameID)
	s.Require().NoError(err)
	s.Require().Len(rows, 4)

	var ranks []int
	var users []int64
	for _, r := range rows {
		ranks = append(ranks, r.Rank)
		users = append(users, r.UserID)
	}
	s.Equal([]int{1, 2, 3, 4}, ranks)
	s.Equal([]int64{3, 2, 1, 4}, users)
	s.Equal(15, rows[2].Score)
}

func (s *ScoreServiceSuite) TestGlobalScoresFromCache() {
	cached := []models.ScoreRow{{Rank: 1, Score: 7, Sessions: 1, UserID: 9, UserName: "cached"}}
	s.scores.On("Get", mock.Anything, int64(5)).Return(cached, true)

	// Game 5 does not exist; only the cache can answer.
	rows, err := s.service().GetGlobalScores(s.ctx, 5)
	s.Require().NoError(err)
	s.Equal(cached, rows)
	s.scores.AssertNotCalled(s.T(), "Set", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ScoreServiceSuite) TestGlobalScoresUnknownGame() {
	s.scores.On("Get", mock.Anything, int64(5)).Return(nil, false)

	_, err := s.service().GetGlobalScores(s.ctx, 5)
	s.True(errors.HasCode(err, errors.ErrCodeNotFound))
}

func (s *ScoreServiceSuite) TestCompletionState() {
	game := models.NewGame("completion")
	game.CompletionRounds = 2
	game.CompletionPoints = 25
	gameID := s.seedScores(game)
	service := s.service()

	alice, err := service.GetCompletionState(s.ctx, gameID, 1)
	s.Require().NoError(err)
	s.True(alice.Applicable)
	s.True(alice.Completed)
	s.Equal(3, alice.RoundsFinished)
	s.Equal(30, alice.PointsReached)

	bob, err := service.GetCompletionState(s.ctx, gameID, 2)
	s.Require().NoError(err)
	s.False(bob.Completed, "one round is not enough")

	plain, _ := testutil.SeedGame(s.T(), s.db, models.NewGame("plain"), testutil.LadderLevel{Score: 1})
	state, err := service.GetCompletionState(s.ctx, plain, 1)
	s.Require().NoError(err)
	s.False(state.Applicable)
	s.False(state.Completed)
}

func TestScoreServiceSuite(t *testing.T) {
	suite.Run(t, new(ScoreServiceSuite))
}
