package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vytor/millionaire/internal/logger"
	"github.com/vytor/millionaire/internal/models"
	"github.com/vytor/millionaire/internal/repository"
)

const questionColumns = `q.id, q.created_at, q.modified_at, q.gamesession, q.level, q.mdl_question, q.mdl_answers_order,
       q.mdl_answer, q.score, q.correct, q.finished`

type questionRepository struct {
	q querier
}

// NewQuestionRepository creates a new QuestionRepository implementation
func NewQuestionRepository(db *sql.DB) repository.QuestionRepository {
	return &questionRepository{q: db}
}

func scanQuestion(row rowScanner) (models.Question, error) {
	var (
		q     models.Question
		order string
	)
	if err := row.Scan(&q.ID, &q.CreatedAt, &q.ModifiedAt, &q.SessionID, &q.LevelID, &q.BankQuestionID, &order,
		&q.BankAnswerID, &q.Score, &q.Correct, &q.Finished); err != nil {
		return q, err
	}
	ids, err := models.SplitIDs(order)
	if err != nil {
		return q, fmt.Errorf("question %d: malformed answer order %q: %w", q.ID, order, err)
	}
	q.AnswerOrder = ids
	return q, nil
}

func (r *questionRepository) one(ctx context.Context, query string, args ...any) (*models.Question, error) {
	q, err := scanQuestion(r.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepository) Get(ctx context.Context, id int64) (*models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("getting question: id=%d", id)

	q, err := r.one(ctx, `SELECT `+questionColumns+` FROM questions q WHERE q.id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("question not found: id=%d", id)
		} else {
			log.Error("failed to get question: %v", err)
		}
		return nil, err
	}
	return q, nil
}

func (r *questionRepository) GetBySessionLevel(ctx context.Context, sessionID, levelID int64) (*models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")

	q, err := r.one(ctx, `SELECT `+questionColumns+` FROM questions q WHERE q.gamesession = ? AND q.level = ?`, sessionID, levelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get question: session=%d, level=%d: %v", sessionID, levelID, err)
		return nil, err
	}
	return q, nil
}

func (r *questionRepository) ListBySession(ctx context.Context, sessionID int64) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("listing questions: session=%d", sessionID)

	rows, err := r.q.QueryContext(ctx, `
SELECT `+questionColumns+`
FROM questions q
JOIN levels l ON l.id = q.level
WHERE q.gamesession = ?
ORDER BY l.position ASC, q.id ASC
`, sessionID)
	if err != nil {
		log.Error("failed to list questions: %v", err)
		return nil, err
	}
	defer rows.Close()
	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			log.Error("failed to scan question row: %v", err)
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *questionRepository) Latest(ctx context.Context, sessionID int64) (*models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")

	q, err := r.one(ctx, `
SELECT `+questionColumns+`
FROM questions q
JOIN levels l ON l.id = q.level
WHERE q.gamesession = ?
ORDER BY l.position DESC, q.id DESC
LIMIT 1
`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get latest question: session=%d: %v", sessionID, err)
		return nil, err
	}
	return q, nil
}

func (r *questionRepository) ShownBankQuestionIDs(ctx context.Context, gameID, userID int64) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")

	rows, err := r.q.QueryContext(ctx, `
SELECT DISTINCT q.mdl_question
FROM questions q
JOIN gamesessions s ON s.id = q.gamesession
WHERE s.game = ? AND s.mdl_user = ?
ORDER BY q.mdl_question
`, gameID, userID)
	if err != nil {
		log.Error("failed to list shown questions: %v", err)
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	log.Debug("user %d has seen %d bank questions in game %d", userID, len(ids), gameID)
	return ids, rows.Err()
}

func (r *questionRepository) Insert(ctx context.Context, q models.Question) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("inserting question: session=%d, level=%d, mdl_question=%d", q.SessionID, q.LevelID, q.BankQuestionID)

	stampCreate(&q.CreatedAt, &q.ModifiedAt)
	res, err := r.q.ExecContext(ctx, `
INSERT INTO questions (created_at, modified_at, gamesession, level, mdl_question, mdl_answers_order, mdl_answer, score, correct, finished)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, q.CreatedAt, q.ModifiedAt, q.SessionID, q.LevelID, q.BankQuestionID, models.JoinIDs(q.AnswerOrder),
		q.BankAnswerID, q.Score, q.Correct, q.Finished)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}
		log.Error("failed to insert question: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

// Update writes the answer fields. The answer order is frozen at insert.
func (r *questionRepository) Update(ctx context.Context, q models.Question) error {
	log := logger.FromContext(ctx).WithPrefix("question_repo")
	log.Debug("updating question: id=%d, finished=%t, correct=%t", q.ID, q.Finished, q.Correct)

	_, err := r.q.ExecContext(ctx, `
UPDATE questions
SET modified_at = ?, mdl_answer = ?, score = ?, correct = ?, finished = ?
WHERE id = ?
`, now(), q.BankAnswerID, q.Score, q.Correct, q.Finished, q.ID)
	if err != nil {
		log.Error("failed to update question: %v", err)
	}
	return err
}

func (r *questionRepository) DeleteByGame(ctx context.Context, gameID int64) error {
	log := logger.FromContext(ctx).WithPrefix("question_repo")

	_, err := r.q.ExecContext(ctx, `DELETE FROM questions WHERE gamesession IN (SELECT id FROM gamesessions WHERE game = ?)`, gameID)
	if err != nil {
		log.Error("failed to delete questions: %v", err)
	}
	return err
}
