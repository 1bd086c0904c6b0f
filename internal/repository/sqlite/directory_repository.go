package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/millionaire/internal/logger"
	"github.com/vytor/millionaire/internal/repository"
)

type directoryRepository struct {
	db *sql.DB
}

// NewDirectory creates a user directory backed by the users and user_capabilities tables.
// Capabilities granted on game 0 apply to every game.
func NewDirectory(db *sql.DB) repository.Directory {
	return &directoryRepository{db: db}
}

func (r *directoryRepository) UserName(ctx context.Context, userID int64) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, `SELECT name FROM users WHERE id = ?`, userID).Scan(&name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.FromContext(ctx).WithPrefix("directory_repo").Error("failed to get user %d: %v", userID, err)
	}
	return name, err
}

func (r *directoryRepository) HasCapability(ctx context.Context, gameID, userID int64, capability string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM user_capabilities
WHERE user = ? AND capability = ? AND game IN (0, ?)
`, userID, capability, gameID).Scan(&count)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("directory_repo").Error("failed to check capability: %v", err)
		return false, err
	}
	return count > 0, nil
}

func (r *directoryRepository) UpsertUser(ctx context.Context, userID int64, name string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, name) VALUES (?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name
`, userID, name)
	return err
}

func (r *directoryRepository) Grant(ctx context.Context, gameID, userID int64, capability string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO user_capabilities (user, game, capability) VALUES (?, ?, ?)`,
		userID, gameID, capability)
	return err
}
