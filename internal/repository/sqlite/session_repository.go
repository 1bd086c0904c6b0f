package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/millionaire/internal/logger"
	"github.com/vytor/millionaire/internal/models"
	"github.com/vytor/millionaire/internal/repository"
)

var sessionColumns = []string{
	"id", "created_at", "modified_at", "game", "mdl_user", "continue_on_failure",
	"score", "answers_total", "answers_correct", "state", "won",
}

type sessionRepository struct {
	q querier
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{q: db}
}

func scanSession(row rowScanner) (models.GameSession, error) {
	var s models.GameSession
	err := row.Scan(&s.ID, &s.CreatedAt, &s.ModifiedAt, &s.GameID, &s.UserID, &s.ContinueOnFailure,
		&s.Score, &s.AnswersTotal, &s.AnswersCorrect, &s.State, &s.Won)
	return s, err
}

func sessionFilter(query squirrel.SelectBuilder, filter models.SessionFilter) squirrel.SelectBuilder {
	if filter.GameID != 0 {
		query = query.Where(squirrel.Eq{"game": filter.GameID})
	}
	if filter.UserID != 0 {
		query = query.Where(squirrel.Eq{"mdl_user": filter.UserID})
	}
	if len(filter.States) > 0 {
		query = query.Where(squirrel.Eq{"state": filter.States})
	}
	return query
}

func (r *sessionRepository) Get(ctx context.Context, id int64) (*models.GameSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting session: id=%d", id)

	sqlStr, args, err := sqlBuilder.Select(sessionColumns...).From("gamesessions").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	s, err := scanSession(r.q.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found: id=%d", id)
		} else {
			log.Error("failed to get session: %v", err)
		}
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) Latest(ctx context.Context, filter models.SessionFilter) (*models.GameSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting latest session: game=%d, user=%d, states=%v", filter.GameID, filter.UserID, filter.States)

	query := sessionFilter(sqlBuilder.Select(sessionColumns...).From("gamesessions"), filter).
		OrderBy("modified_at DESC", "id DESC").
		Limit(1)
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	s, err := scanSession(r.q.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get latest session: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.GameSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing sessions: game=%d, user=%d, states=%v", filter.GameID, filter.UserID, filter.States)

	query := sessionFilter(sqlBuilder.Select(sessionColumns...).From("gamesessions"), filter).
		OrderBy("created_at ASC", "id ASC")
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, err
	}
	defer rows.Close()
	var sessions []models.GameSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		sessions = append(sessions, s)
	}
	log.Debug("found %d sessions", len(sessions))
	return sessions, rows.Err()
}

func (r *sessionRepository) Insert(ctx context.Context, s models.GameSession) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: game=%d, user=%d", s.GameID, s.UserID)

	stampCreate(&s.CreatedAt, &s.ModifiedAt)
	res, err := r.q.ExecContext(ctx, `
INSERT INTO gamesessions (created_at, modified_at, game, mdl_user, continue_on_failure, score, answers_total, answers_correct, state, won)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, s.CreatedAt, s.ModifiedAt, s.GameID, s.UserID, s.ContinueOnFailure, s.Score, s.AnswersTotal, s.AnswersCorrect, s.State, s.Won)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("session already in progress: game=%d, user=%d", s.GameID, s.UserID)
			return 0, repository.ErrDuplicate
		}
		log.Error("failed to insert session: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *sessionRepository) Update(ctx context.Context, s models.GameSession) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("updating session: id=%d, state=%s, score=%d", s.ID, s.State, s.Score)

	_, err := r.q.ExecContext(ctx, `
UPDATE gamesessions
SET modified_at = ?, score = ?, answers_total = ?, answers_correct = ?, state = ?, won = ?
WHERE id = ?
`, now(), s.Score, s.AnswersTotal, s.AnswersCorrect, s.State, s.Won, s.ID)
	if err != nil {
		log.Error("failed to update session: %v", err)
	}
	return err
}

func (r *sessionRepository) DumpInProgress(ctx context.Context, gameID, userID int64) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	res, err := r.q.ExecContext(ctx, `
UPDATE gamesessions
SET state = ?, modified_at = ?
WHERE game = ? AND mdl_user = ? AND state = ?
`, models.SessionStateDumped, now(), gameID, userID, models.SessionStateProgress)
	if err != nil {
		log.Error("failed to dump sessions: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Debug("dumped %d sessions: game=%d, user=%d", n, gameID, userID)
	return n, nil
}

func (r *sessionRepository) DeleteByGame(ctx context.Context, gameID int64) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("deleting sessions: game=%d", gameID)

	if _, err := r.q.ExecContext(ctx, `DELETE FROM gamesessions WHERE game = ?`, gameID); err != nil {
		log.Error("failed to delete sessions: %v", err)
		return err
	}
	return nil
}
