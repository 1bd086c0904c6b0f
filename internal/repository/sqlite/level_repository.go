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

type levelRepository struct {
	q querier
}

// NewLevelRepository creates a new LevelRepository implementation
func NewLevelRepository(db *sql.DB) repository.LevelRepository {
	return &levelRepository{q: db}
}

func scanLevel(row rowScanner) (models.Level, error) {
	var l models.Level
	err := row.Scan(&l.ID, &l.GameID, &l.State, &l.Name, &l.Position, &l.Score, &l.SafeSpot)
	return l, err
}

func levelFilter(query squirrel.SelectBuilder, filter models.LevelFilter) squirrel.SelectBuilder {
	if filter.GameID != 0 {
		query = query.Where(squirrel.Eq{"game": filter.GameID})
	}
	if len(filter.States) > 0 {
		query = query.Where(squirrel.Eq{"state": filter.States})
	}
	return query
}

func (r *levelRepository) Get(ctx context.Context, id int64) (*models.Level, error) {
	log := logger.FromContext(ctx).WithPrefix("level_repo")
	log.Debug("getting level: id=%d", id)

	l, err := scanLevel(r.q.QueryRowContext(ctx, `
SELECT id, game, state, name, position, score, safe_spot
FROM levels
WHERE id = ?
`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("level not found: id=%d", id)
		} else {
			log.Error("failed to get level: %v", err)
		}
		return nil, err
	}
	return &l, nil
}

func (r *levelRepository) List(ctx context.Context, filter models.LevelFilter) ([]models.Level, error) {
	log := logger.FromContext(ctx).WithPrefix("level_repo")
	log.Debug("listing levels: game=%d, states=%v", filter.GameID, filter.States)

	query := levelFilter(sqlBuilder.Select("id", "game", "state", "name", "position", "score", "safe_spot").From("levels"), filter).
		OrderBy("position ASC", "id ASC")
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list levels: %v", err)
		return nil, err
	}
	defer rows.Close()
	var levels []models.Level
	for rows.Next() {
		l, err := scanLevel(rows)
		if err != nil {
			log.Error("failed to scan level row: %v", err)
			return nil, err
		}
		levels = append(levels, l)
	}
	log.Debug("found %d levels", len(levels))
	return levels, rows.Err()
}

func (r *levelRepository) Count(ctx context.Context, filter models.LevelFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("level_repo")

	sqlStr, args, err := levelFilter(sqlBuilder.Select("COUNT(*)").From("levels"), filter).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}
	var count int
	if err := r.q.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count levels: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *levelRepository) Insert(ctx context.Context, l models.Level) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("level_repo")
	log.Debug("inserting level: game=%d, position=%d, score=%d", l.GameID, l.Position, l.Score)

	res, err := r.q.ExecContext(ctx, `
INSERT INTO levels (game, state, name, position, score, safe_spot)
VALUES (?, ?, ?, ?, ?, ?)
`, l.GameID, l.State, l.Name, l.Position, l.Score, l.SafeSpot)
	if err != nil {
		log.Error("failed to insert level: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *levelRepository) Update(ctx context.Context, l models.Level) error {
	log := logger.FromContext(ctx).WithPrefix("level_repo")
	log.Debug("updating level: id=%d, state=%s", l.ID, l.State)

	_, err := r.q.ExecContext(ctx, `
UPDATE levels
SET state = ?, name = ?, position = ?, score = ?, safe_spot = ?
WHERE id = ?
`, l.State, l.Name, l.Position, l.Score, l.SafeSpot, l.ID)
	if err != nil {
		log.Error("failed to update level: %v", err)
	}
	return err
}

func (r *levelRepository) UpdatePositions(ctx context.Context, positions map[int64]int) error {
	log := logger.FromContext(ctx).WithPrefix("level_repo")
	log.Debug("updating %d level positions", len(positions))

	for id, position := range positions {
		if _, err := r.q.ExecContext(ctx, `UPDATE levels SET position = ? WHERE id = ?`, position, id); err != nil {
			log.Error("failed to update position of level %d: %v", id, err)
			return err
		}
	}
	return nil
}

func (r *levelRepository) DeleteByGame(ctx context.Context, gameID int64) error {
	log := logger.FromContext(ctx).WithPrefix("level_repo")
	log.Debug("deleting levels: game=%d", gameID)

	if _, err := r.q.ExecContext(ctx, `DELETE FROM levels WHERE game = ?`, gameID); err != nil {
		log.Error("failed to delete levels: %v", err)
		return err
	}
	return nil
}
