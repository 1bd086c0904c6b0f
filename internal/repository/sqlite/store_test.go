package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/millionaire/internal/models"
	"github.com/vytor/millionaire/internal/repository"
	"github.com/vytor/millionaire/internal/repository/sqlite"
	"github.com/vytor/millionaire/internal/testutil"
)

type StoreSuite struct {
	suite.Suite
	db       *sql.DB
	store    repository.Store
	gameID   int64
	levelIDs []int64
}

func (s *StoreSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.store = sqlite.NewStore(s.db)
	s.gameID, s.levelIDs = testutil.SeedGame(s.T(), s.db, models.NewGame("store"),
		testutil.LadderLevel{Score: 100}, testutil.LadderLevel{Score: 200}, testutil.LadderLevel{Score: 500})
}

func (s *StoreSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *StoreSuite) newSession(user int64, state string) int64 {
	id, err := s.store.Sessions().Insert(context.Background(), models.GameSession{GameID: s.gameID, UserID: user, State: state})
	s.Require().NoError(err)
	return id
}

func (s *StoreSuite) TestOneProgressSessionPerUserAndGame() {
	ctx := context.Background()
	s.newSession(7, models.SessionStateProgress)

	_, err := s.store.Sessions().Insert(ctx, models.GameSession{GameID: s.gameID, UserID: 7, State: models.SessionStateProgress})
	s.Assert().ErrorIs(err, repository.ErrDuplicate)

	// Other users and other states are unaffected.
	s.newSession(8, models.SessionStateProgress)
	s.newSession(7, models.SessionStateFinished)
	s.newSession(7, models.SessionStateDumped)
}

func (s *StoreSuite) TestDumpInProgress() {
	ctx := context.Background()
	id := s.newSession(7, models.SessionStateProgress)
	s.newSession(7, models.SessionStateFinished)

	n, err := s.store.Sessions().DumpInProgress(ctx, s.gameID, 7)
	s.Require().NoError(err)
	s.Assert().Equal(int64(1), n)

	session, err := s.store.Sessions().Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(models.SessionStateDumped, session.State)
}

func (s *StoreSuite) TestLatest_ByModifiedThenID() {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	insert := func(state string, modified time.Time) int64 {
		id, err := s.store.Sessions().Insert(ctx, models.GameSession{
			GameID: s.gameID, UserID: 7, State: state, CreatedAt: base, ModifiedAt: modified,
		})
		s.Require().NoError(err)
		return id
	}
	insert(models.SessionStateFinished, base)
	tieA := insert(models.SessionStateFinished, base.Add(time.Minute))
	tieB := insert(models.SessionStateFinished, base.Add(time.Minute))
	insert(models.SessionStateDumped, base.Add(time.Hour))

	latest, err := s.store.Sessions().Latest(ctx, models.SessionFilter{
		GameID: s.gameID, UserID: 7, States: []string{models.SessionStateProgress, models.SessionStateFinished},
	})
	s.Require().NoError(err)
	s.Require().NotNil(latest)
	s.Assert().Equal(tieB, latest.ID)
	s.Assert().NotEqual(tieA, latest.ID)

	none, err := s.store.Sessions().Latest(ctx, models.SessionFilter{GameID: s.gameID, UserID: 99})
	s.Require().NoError(err)
	s.Assert().Nil(none)
}

func (s *StoreSuite) TestQuestions_FrozenOrderAndLatest() {
	ctx := context.Background()
	sessionID := s.newSession(7, models.SessionStateProgress)

	first, err := s.store.Questions().Insert(ctx, models.Question{
		SessionID: sessionID, LevelID: s.levelIDs[0], BankQuestionID: 1, AnswerOrder: []int64{13, 11, 12, 10},
		Finished: true, Correct: true, Score: 100,
	})
	s.Require().NoError(err)
	second, err := s.store.Questions().Insert(ctx, models.Question{
		SessionID: sessionID, LevelID: s.levelIDs[1], BankQuestionID: 2, AnswerOrder: []int64{20, 21},
	})
	s.Require().NoError(err)

	_, err = s.store.Questions().Insert(ctx, models.Question{SessionID: sessionID, LevelID: s.levelIDs[1], BankQuestionID: 3})
	s.Assert().ErrorIs(err, repository.ErrDuplicate)

	q, err := s.store.Questions().Get(ctx, first)
	s.Require().NoError(err)
	s.Assert().Equal([]int64{13, 11, 12, 10}, q.AnswerOrder)

	latest, err := s.store.Questions().Latest(ctx, sessionID)
	s.Require().NoError(err)
	s.Require().NotNil(latest)
	s.Assert().Equal(second, latest.ID)

	byLevel, err := s.store.Questions().GetBySessionLevel(ctx, sessionID, s.levelIDs[2])
	s.Require().NoError(err)
	s.Assert().Nil(byLevel)

	shown, err := s.store.Questions().ShownBankQuestionIDs(ctx, s.gameID, 7)
	s.Require().NoError(err)
	s.Assert().Equal([]int64{1, 2}, shown)
}

func (s *StoreSuite) TestJokerUniqueness() {
	ctx := context.Background()
	sessionID := s.newSession(7, models.SessionStateProgress)
	questionID, err := s.store.Questions().Insert(ctx, models.Question{SessionID: sessionID, LevelID: s.levelIDs[0], BankQuestionID: 1})
	s.Require().NoError(err)

	_, err = s.store.Jokers().Insert(ctx, models.Joker{SessionID: sessionID, QuestionID: questionID, Type: models.JokerHint, Data: "x"})
	s.Require().NoError(err)
	_, err = s.store.Jokers().Insert(ctx, models.Joker{SessionID: sessionID, QuestionID: questionID, Type: models.JokerHint, Data: "y"})
	s.Assert().ErrorIs(err, repository.ErrDuplicate)

	jokers, err := s.store.Jokers().ListBySession(ctx, sessionID)
	s.Require().NoError(err)
	s.Require().Len(jokers, 1)
	s.Assert().Equal("x", jokers[0].Data)
}

func (s *StoreSuite) TestWithTx_RollsBackOnError() {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Sessions().Insert(ctx, models.GameSession{GameID: s.gameID, UserID: 7, State: models.SessionStateProgress}); err != nil {
			return err
		}
		return boom
	})
	s.Assert().ErrorIs(err, boom)

	sessions, err := s.store.Sessions().List(ctx, models.SessionFilter{GameID: s.gameID})
	s.Require().NoError(err)
	s.Assert().Empty(sessions)
}

func (s *StoreSuite) TestDeleteByGame() {
	ctx := context.Background()
	sessionID := s.newSession(7, models.SessionStateProgress)
	questionID, err := s.store.Questions().Insert(ctx, models.Question{SessionID: sessionID, LevelID: s.levelIDs[0], BankQuestionID: 1})
	s.Require().NoError(err)
	_, err = s.store.Jokers().Insert(ctx, models.Joker{SessionID: sessionID, QuestionID: questionID, Type: models.JokerAudience})
	s.Require().NoError(err)
	_, err = s.store.Categories().Insert(ctx, models.Category{LevelID: s.levelIDs[0], BankCategoryID: 3})
	s.Require().NoError(err)

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		s.Require().NoError(tx.Jokers().DeleteByGame(ctx, s.gameID))
		s.Require().NoError(tx.Questions().DeleteByGame(ctx, s.gameID))
		s.Require().NoError(tx.Sessions().DeleteByGame(ctx, s.gameID))
		s.Require().NoError(tx.Categories().DeleteByGame(ctx, s.gameID))
		return tx.Levels().DeleteByGame(ctx, s.gameID)
	})
	s.Require().NoError(err)

	count, err := s.store.Levels().Count(ctx, models.LevelFilter{GameID: s.gameID})
	s.Require().NoError(err)
	s.Assert().Zero(count)
	categories, err := s.store.Categories().ListByLevel(ctx, s.levelIDs[0])
	s.Require().NoError(err)
	s.Assert().Empty(categories)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}
