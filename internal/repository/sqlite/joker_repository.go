package sqlite

import (
	"context"
	"database/sql"

	"github.com/vytor/millionaire/internal/logger"
	"github.com/vytor/millionaire/internal/models"
	"github.com/vytor/millionaire/internal/repository"
)

type jokerRepository struct {
	q querier
}

// NewJokerRepository creates a new JokerRepository implementation
func NewJokerRepository(db *sql.DB) repository.JokerRepository {
	return &jokerRepository{q: db}
}

func (r *jokerRepository) ListBySession(ctx context.Context, sessionID int64) ([]models.Joker, error) {
	log := logger.FromContext(ctx).WithPrefix("joker_repo")
	log.Debug("listing jokers: session=%d", sessionID)

	rows, err := r.q.QueryContext(ctx, `
SELECT id, created_at, modified_at, gamesession, question, joker_type, joker_data
FROM jokers
WHERE gamesession = ?
ORDER BY id
`, sessionID)
	if err != nil {
		log.Error("failed to list jokers: %v", err)
		return nil, err
	}
	defer rows.Close()
	var jokers []models.Joker
	for rows.Next() {
		var j models.Joker
		if err := rows.Scan(&j.ID, &j.CreatedAt, &j.ModifiedAt, &j.SessionID, &j.QuestionID, &j.Type, &j.Data); err != nil {
			log.Error("failed to scan joker row: %v", err)
			return nil, err
		}
		jokers = append(jokers, j)
	}
	return jokers, rows.Err()
}

func (r *jokerRepository) Insert(ctx context.Context, j models.Joker) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("joker_repo")
	log.Debug("inserting joker: session=%d, question=%d, type=%s", j.SessionID, j.QuestionID, j.Type)

	stampCreate(&j.CreatedAt, &j.ModifiedAt)
	res, err := r.q.ExecContext(ctx, `
INSERT INTO jokers (created_at, modified_at, gamesession, question, joker_type, joker_data)
VALUES (?, ?, ?, ?, ?, ?)
`, j.CreatedAt, j.ModifiedAt, j.SessionID, j.QuestionID, string(j.Type), j.Data)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("joker %s already used in session %d", j.Type, j.SessionID)
			return 0, repository.ErrDuplicate
		}
		log.Error("failed to insert joker: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *jokerRepository) DeleteByGame(ctx context.Context, gameID int64) error {
	log := logger.FromContext(ctx).WithPrefix("joker_repo")

	_, err := r.q.ExecContext(ctx, `DELETE FROM jokers WHERE gamesession IN (SELECT id FROM gamesessions WHERE game = ?)`, gameID)
	if err != nil {
		log.Error("failed to delete jokers: %v", err)
	}
	return err
}
