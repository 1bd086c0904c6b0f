package services

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/vytor/millionaire/internal/cache"
	"github.com/vytor/millionaire/internal/errors"
	"github.com/vytor/millionaire/internal/i18n"
	"github.com/vytor/millionaire/internal/joker"
	"github.com/vytor/millionaire/internal/ladder"
	"github.com/vytor/millionaire/internal/logger"
	"github.com/vytor/millionaire/internal/models"
	"github.com/vytor/millionaire/internal/repository"
)

// GameSessionService drives a player's run through the ladder
type GameSessionService interface {
	GetOrCreateSession(ctx context.Context, gameID, userID int64) (*models.SessionView, error)
	CreateSession(ctx context.Context, gameID, userID int64) (*models.SessionView, error)
	GetSession(ctx context.Context, sessionID, userID int64) (*models.SessionView, error)
	CloseSession(ctx context.Context, sessionID, userID int64) (*models.SessionView, error)
	GetCurrentLevel(ctx context.Context, sessionID, userID int64) (*models.Level, error)
	GetLevels(ctx context.Context, gameID, userID, sessionID int64) ([]models.LevelView, error)
	GetOrCreateQuestion(ctx context.Context, sessionID, userID int64, levelIndex int) (*models.QuestionView, error)
	SubmitAnswer(ctx context.Context, sessionID, userID, levelID, questionID, answerID int64) (*models.QuestionView, error)
	SubmitJoker(ctx context.Context, sessionID, userID, questionID int64, jokerType models.JokerType) (*models.JokerView, error)
	GetUsedJokers(ctx context.Context, sessionID, userID int64) ([]models.JokerView, error)
	IsJokerUsed(ctx context.Context, sessionID int64, jokerType models.JokerType) (bool, error)
}

type gameSessionService struct {
	store  repository.Store
	bank   repository.QuestionBank
	picker QuestionPicker
	scores cache.ScoreCache
	rnd    Rand
}

// NewGameSessionService creates a new GameSessionService
func NewGameSessionService(store repository.Store, bank repository.QuestionBank, picker QuestionPicker, scores cache.ScoreCache, rnd Rand) GameSessionService {
	return &gameSessionService{store: store, bank: bank, picker: picker, scores: scores, rnd: rnd}
}

func (s *gameSessionService) GetOrCreateSession(ctx context.Context, gameID, userID int64) (*models.SessionView, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"game_id": gameID, "user_id": userID})
	log.Debug("getting or creating session")

	var session *models.GameSession
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		game, err := getGame(ctx, tx, gameID)
		if err != nil {
			return err
		}
		filter := models.SessionFilter{
			GameID: gameID,
			UserID: userID,
			States: []string{models.SessionStateProgress, models.SessionStateFinished},
		}
		existing, err := tx.Sessions().Latest(ctx, filter)
		if err != nil {
			return errors.NewInternalError(err)
		}
		if existing != nil {
			session = existing
			return nil
		}
		if err := requireLadder(ctx, tx, gameID); err != nil {
			return err
		}
		session, err = insertSession(ctx, tx, *game, userID)
		return err
	})
	if err != nil {
		log.Error("failed to get or create session: %v", err)
		return nil, err
	}
	return s.sessionView(ctx, *session)
}

func (s *gameSessionService) CreateSession(ctx context.Context, gameID, userID int64) (*models.SessionView, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"game_id": gameID, "user_id": userID})
	log.Debug("creating fresh session")

	var session *models.GameSession
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		game, err := getGame(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if err := requireLadder(ctx, tx, gameID); err != nil {
			return err
		}
		dumped, err := tx.Sessions().DumpInProgress(ctx, gameID, userID)
		if err != nil {
			return errors.NewInternalError(err)
		}
		if dumped > 0 {
			log.Info("dumped %d running sessions", dumped)
		}
		session, err = insertSession(ctx, tx, *game, userID)
		return err
	})
	if err != nil {
		log.Error("failed to create session: %v", err)
		return nil, err
	}
	return s.sessionView(ctx, *session)
}

func requireLadder(ctx context.Context, store repository.Store, gameID int64) error {
	count, err := store.Levels().Count(ctx, models.LevelFilter{GameID: gameID, States: []string{models.LevelStateActive}})
	if err != nil {
		return errors.NewInternalError(err)
	}
	if count == 0 {
		return errors.NewConfigurationError("game has no active levels")
	}
	return nil
}

func insertSession(ctx context.Context, store repository.Store, game models.Game, userID int64) (*models.GameSession, error) {
	session := models.GameSession{
		GameID:            game.ID,
		UserID:            userID,
		ContinueOnFailure: game.ContinueOnFailure,
		State:             models.SessionStateProgress,
	}
	id, err := store.Sessions().Insert(ctx, session)
	if err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.NewInvalidStateError("a game session is already in progress")
		}
		return nil, errors.NewInternalError(err)
	}
	created, err := store.Sessions().Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	logger.FromContext(ctx).Info("session created: id=%d, game=%d, user=%d", id, game.ID, userID)
	return created, nil
}

func (s *gameSessionService) GetSession(ctx context.Context, sessionID, userID int64) (*models.SessionView, error) {
	session, err := ownSession(ctx, s.store, sessionID, userID)
	if err != nil {
		return nil, err
	}
	return s.sessionView(ctx, *session)
}

func (s *gameSessionService) sessionView(ctx context.Context, session models.GameSession) (*models.SessionView, error) {
	game, err := getGame(ctx, s.store, session.GameID)
	if err != nil {
		return nil, err
	}
	levels, err := activeLevels(ctx, s.store, session.GameID)
	if err != nil {
		return nil, err
	}
	return &models.SessionView{
		GameSession:  session,
		ScoreName:    ladder.ScoreName(levels, session.AnswersCorrect, game.CurrencyForLevels),
		CurrentLevel: session.AnswersTotal,
	}, nil
}

func (s *gameSessionService) CloseSession(ctx context.Context, sessionID, userID int64) (*models.SessionView, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"session_id": sessionID, "user_id": userID})
	log.Debug("closing session")

	var closed *models.GameSession
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		session, err := ownSession(ctx, tx, sessionID, userID)
		if err != nil {
			return err
		}
		if !session.InProgress() {
			return errors.NewInvalidStateError("only a running game session can be closed")
		}
		latest, err := tx.Questions().Latest(ctx, sessionID)
		if err != nil {
			return errors.NewInternalError(err)
		}
		if latest != nil && latest.Finished && !latest.Correct && !session.ContinueOnFailure {
			return errors.NewInvalidStateError("the last answer was wrong, the game session cannot be closed as won")
		}
		session.State = models.SessionStateFinished
		session.Won = true
		if err := tx.Sessions().Update(ctx, *session); err != nil {
			return errors.NewInternalError(err)
		}
		closed = session
		return nil
	})
	if err != nil {
		log.Warn("failed to close session: %v", err)
		return nil, err
	}
	s.scores.Invalidate(ctx, closed.GameID)
	log.Info("session closed: score=%d", closed.Score)
	return s.sessionView(ctx, *closed)
}

func (s *gameSessionService) GetCurrentLevel(ctx context.Context, sessionID, userID int64) (*models.Level, error) {
	session, err := ownSession(ctx, s.store, sessionID, userID)
	if err != nil {
		return nil, err
	}
	return currentLevel(ctx, s.store, *session)
}

// currentLevel resolves the level a running session is on, or nil when there is none.
func currentLevel(ctx context.Context, store repository.Store, session models.GameSession) (*models.Level, error) {
	if !session.InProgress() {
		return nil, nil
	}
	levels, err := activeLevels(ctx, store, session.GameID)
	if err != nil {
		return nil, err
	}
	latest, err := store.Questions().Latest(ctx, session.ID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if latest == nil {
		return levelAt(levels, 0), nil
	}
	level := levelByID(levels, latest.LevelID)
	if level == nil {
		// The level was removed from the ladder after it was played.
		level, err = getLevel(ctx, store, latest.LevelID)
		if err != nil {
			return nil, err
		}
	}
	if !latest.Finished {
		return level, nil
	}
	return levelAt(levels, level.Position+1), nil
}

func (s *gameSessionService) GetLevels(ctx context.Context, gameID, userID, sessionID int64) ([]models.LevelView, error) {
	game, err := getGame(ctx, s.store, gameID)
	if err != nil {
		return nil, err
	}
	levels, err := activeLevels(ctx, s.store, gameID)
	if err != nil {
		return nil, err
	}

	byLevel := make(map[int64]models.Question)
	if sessionID != 0 {
		session, err := ownSession(ctx, s.store, sessionID, userID)
		if err != nil {
			return nil, err
		}
		if session.GameID != gameID {
			return nil, errors.NewInvalidReferenceError("gamesession", sessionID, "game", gameID)
		}
		questions, err := s.store.Questions().ListBySession(ctx, sessionID)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		for _, q := range questions {
			byLevel[q.LevelID] = q
		}
	}

	views := make([]models.LevelView, 0, len(levels))
	for _, l := range levels {
		view := models.LevelView{Level: l, Title: l.Title(game.CurrencyForLevels), ReachedScore: -1}
		if q, ok := byLevel[l.ID]; ok {
			view.Seen = true
			view.Finished = q.Finished
			view.Correct = q.Correct
			view.ReachedScore = q.Score
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *gameSessionService) GetOrCreateQuestion(ctx context.Context, sessionID, userID int64, levelIndex int) (*models.QuestionView, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"session_id": sessionID, "level_index": levelIndex})
	log.Debug("getting or creating question")

	session, err := ownSession(ctx, s.store, sessionID, userID)
	if err != nil {
		return nil, err
	}
	levels, err := activeLevels(ctx, s.store, session.GameID)
	if err != nil {
		return nil, err
	}
	level := levelAt(levels, levelIndex)
	if level == nil {
		return nil, errors.NewNotFoundError("level at position", levelIndex)
	}

	existing, err := s.store.Questions().GetBySessionLevel(ctx, sessionID, level.ID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		return s.questionView(ctx, *existing, level.Position)
	}

	if !session.InProgress() {
		return nil, errors.NewInvalidStateError("questions can only be drawn while the game session is running")
	}
	current, err := currentLevel(ctx, s.store, *session)
	if err != nil {
		return nil, err
	}
	if current == nil || current.ID != level.ID {
		return nil, errors.NewInvalidStateError("the requested level has not been reached")
	}

	game, err := getGame(ctx, s.store, session.GameID)
	if err != nil {
		return nil, err
	}
	bankQuestion, err := s.picker.PickRandomQuestion(ctx, *game, *level, userID)
	if err != nil {
		return nil, err
	}

	order := bankQuestion.AnswerIDs()
	if game.QuestionShuffleAnswers {
		s.rnd.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	question := models.Question{
		SessionID:      sessionID,
		LevelID:        level.ID,
		BankQuestionID: bankQuestion.ID,
		AnswerOrder:    order,
	}
	id, err := s.store.Questions().Insert(ctx, question)
	if err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			// Another request created it first.
			existing, err := s.store.Questions().GetBySessionLevel(ctx, sessionID, level.ID)
			if err != nil || existing == nil {
				return nil, errors.NewInternalError(err)
			}
			return s.questionView(ctx, *existing, level.Position)
		}
		log.Error("failed to create question: %v", err)
		return nil, errors.NewInternalError(err)
	}
	created, err := s.store.Questions().Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	log.Info("question created: id=%d, mdl_question=%d", id, bankQuestion.ID)
	return buildQuestionView(*created, level.Position, *bankQuestion), nil
}

func (s *gameSessionService) bankQuestion(ctx context.Context, id int64) (*models.BankQuestion, error) {
	q, err := s.bank.Question(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("bank question", id)
		}
		return nil, errors.NewInternalError(err)
	}
	return q, nil
}

func (s *gameSessionService) questionView(ctx context.Context, q models.Question, index int) (*models.QuestionView, error) {
	bankQuestion, err := s.bankQuestion(ctx, q.BankQuestionID)
	if err != nil {
		return nil, err
	}
	return buildQuestionView(q, index, *bankQuestion), nil
}

// buildQuestionView lays out the bank answers in the frozen order. Grading details are only
// revealed once the question is finished.
func buildQuestionView(q models.Question, index int, bankQuestion models.BankQuestion) *models.QuestionView {
	view := &models.QuestionView{
		Question: q,
		Index:    index,
		Text:     bankQuestion.Text,
		Answers:  make([]models.AnswerView, 0, len(q.AnswerOrder)),
	}
	for _, id := range q.AnswerOrder {
		a, ok := bankQuestion.Answer(id)
		if !ok {
			continue
		}
		av := models.AnswerView{ID: a.ID, Text: a.Text}
		if q.Finished {
			fraction := a.Fraction
			av.Fraction = &fraction
			av.Feedback = a.Feedback
		}
		view.Answers = append(view.Answers, av)
	}
	if q.Finished {
		view.GeneralFeedback = bankQuestion.GeneralFeedback
	}
	return view
}

func (s *gameSessionService) SubmitAnswer(ctx context.Context, sessionID, userID, levelID, questionID, answerID int64) (*models.QuestionView, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"session_id":  sessionID,
		"level_id":    levelID,
		"question_id": questionID,
	})
	log.Debug("submitting answer: answer=%d", answerID)

	// Bank content is read before the transaction; it does not change during a game.
	shown, err := s.store.Questions().Get(ctx, questionID)
	if err != nil {
		return nil, wrap(err, "question", questionID)
	}
	bankQuestion, err := s.bankQuestion(ctx, shown.BankQuestionID)
	if err != nil {
		return nil, err
	}

	var (
		answered models.Question
		position int
		finished bool
		gameID   int64
	)
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		session, err := ownSession(ctx, tx, sessionID, userID)
		if err != nil {
			return err
		}
		gameID = session.GameID
		if !session.InProgress() {
			return errors.NewGameUnavailableError(sessionID, session.State)
		}

		current, err := currentLevel(ctx, tx, *session)
		if err != nil {
			return err
		}
		if current == nil || current.ID != levelID {
			return errors.NewInconsistentInputError("the answered level is not the current level of the game session")
		}

		question, err := tx.Questions().Get(ctx, questionID)
		if err != nil {
			return wrap(err, "question", questionID)
		}
		if question.SessionID != sessionID || question.LevelID != levelID {
			return errors.NewInvalidReferenceError("question", questionID, "level", levelID)
		}
		if question.Finished {
			return errors.NewInvalidStateError("the question was already answered")
		}

		correctAnswer, ok := bankQuestion.CorrectAnswer()
		if !ok {
			return errors.NewUnsupportedError("question must have exactly one full-credit answer")
		}
		if !question.HasAnswer(answerID) {
			return errors.NewInvalidReferenceError("answer", answerID, "question", questionID)
		}
		correct := answerID == correctAnswer.ID

		levels, err := activeLevels(ctx, tx, session.GameID)
		if err != nil {
			return err
		}
		passed, err := tx.Questions().ListBySession(ctx, sessionID)
		if err != nil {
			return errors.NewInternalError(err)
		}
		out := ladder.Answer(levels, *session, *current, correct, passed)

		question.BankAnswerID = answerID
		question.Correct = correct
		question.Finished = true
		question.Score = out.Score
		if err := tx.Questions().Update(ctx, *question); err != nil {
			return errors.NewInternalError(err)
		}

		session.Score = out.Score
		session.AnswersTotal = out.AnswersTotal
		session.AnswersCorrect = out.AnswersCorrect
		if out.Finished {
			session.State = models.SessionStateFinished
			session.Won = out.Won
		}
		if err := tx.Sessions().Update(ctx, *session); err != nil {
			return errors.NewInternalError(err)
		}

		answered = *question
		position = current.Position
		finished = out.Finished
		return nil
	})
	if err != nil {
		log.Warn("answer rejected: %v", err)
		return nil, err
	}

	if finished {
		s.scores.Invalidate(ctx, gameID)
	}
	log.Info("answer scored: correct=%t, score=%d, finished=%t", answered.Correct, answered.Score, finished)
	return buildQuestionView(answered, position, *bankQuestion), nil
}

func (s *gameSessionService) SubmitJoker(ctx context.Context, sessionID, userID, questionID int64, jokerType models.JokerType) (*models.JokerView, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"session_id": sessionID, "question_id": questionID})
	log.Debug("submitting joker: type=%s", jokerType)

	if !jokerType.Valid() {
		return nil, errors.NewValidationError("joker_type", "unknown joker type "+string(jokerType))
	}
	session, err := ownSession(ctx, s.store, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if !session.InProgress() {
		return nil, errors.NewInvalidStateError("jokers can only be used while the game session is running")
	}
	question, err := s.store.Questions().Get(ctx, questionID)
	if err != nil {
		return nil, wrap(err, "question", questionID)
	}
	if question.SessionID != sessionID {
		return nil, errors.NewInvalidReferenceError("question", questionID, "gamesession", sessionID)
	}
	if question.Finished {
		return nil, errors.NewInvalidStateError("jokers cannot be used on an answered question")
	}
	used, err := s.IsJokerUsed(ctx, sessionID, jokerType)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, errors.NewAlreadyUsedError(string(jokerType), sessionID)
	}

	bankQuestion, err := s.bankQuestion(ctx, question.BankQuestionID)
	if err != nil {
		return nil, err
	}
	data, err := joker.Generate(jokerType, *bankQuestion, s.rnd, i18n.T(i18n.FromContext(ctx), i18n.KeyHintUnavailable))
	if err != nil {
		if stderrors.Is(err, joker.ErrUnsupported) {
			return nil, errors.NewUnsupportedError(err.Error())
		}
		return nil, errors.NewInternalError(err)
	}

	j := models.Joker{SessionID: sessionID, QuestionID: questionID, Type: jokerType, Data: data}
	id, err := s.store.Jokers().Insert(ctx, j)
	if err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.NewAlreadyUsedError(string(jokerType), sessionID)
		}
		log.Error("failed to store joker: %v", err)
		return nil, errors.NewInternalError(err)
	}
	j.ID = id

	level, err := getLevel(ctx, s.store, question.LevelID)
	if err != nil {
		return nil, err
	}
	log.Info("joker used: type=%s", jokerType)
	return &models.JokerView{Joker: j, LevelID: level.ID, LevelIndex: level.Position}, nil
}

func (s *gameSessionService) GetUsedJokers(ctx context.Context, sessionID, userID int64) ([]models.JokerView, error) {
	if _, err := ownSession(ctx, s.store, sessionID, userID); err != nil {
		return nil, err
	}
	jokers, err := s.store.Jokers().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	questions, err := s.store.Questions().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	levelOf := make(map[int64]int64, len(questions))
	for _, q := range questions {
		levelOf[q.ID] = q.LevelID
	}

	views := make([]models.JokerView, 0, len(jokers))
	for _, j := range jokers {
		view := models.JokerView{Joker: j, LevelID: levelOf[j.QuestionID]}
		if level, err := s.store.Levels().Get(ctx, view.LevelID); err == nil {
			view.LevelIndex = level.Position
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *gameSessionService) IsJokerUsed(ctx context.Context, sessionID int64, jokerType models.JokerType) (bool, error) {
	jokers, err := s.store.Jokers().ListBySession(ctx, sessionID)
	if err != nil {
		return false, errors.NewInternalError(err)
	}
	for _, j := range jokers {
		if j.Type == jokerType {
			return true, nil
		}
	}
	return false, nil
}
