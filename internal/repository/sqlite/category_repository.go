package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/millionaire/internal/logger"
	"github.com/vytor/millionaire/internal/models"
	"github.com/vytor/millionaire/internal/repository"
)

type categoryRepository struct {
	q querier
}

// NewCategoryRepository creates a new CategoryRepository implementation
func NewCategoryRepository(db *sql.DB) repository.CategoryRepository {
	return &categoryRepository{q: db}
}

func (r *categoryRepository) Get(ctx context.Context, id int64) (*models.Category, error) {
	log := logger.FromContext(ctx).WithPrefix("category_repo")

	var c models.Category
	err := r.q.QueryRowContext(ctx, `SELECT id, level, mdl_category, subcategories FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.LevelID, &c.BankCategoryID, &c.IncludeSubcategories)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("category not found: id=%d", id)
		} else {
			log.Error("failed to get category: %v", err)
		}
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) ListByLevel(ctx context.Context, levelID int64) ([]models.Category, error) {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("listing categories: level=%d", levelID)

	rows, err := r.q.QueryContext(ctx, `
SELECT id, level, mdl_category, subcategories
FROM categories
WHERE level = ?
ORDER BY id
`, levelID)
	if err != nil {
		log.Error("failed to list categories: %v", err)
		return nil, err
	}
	defer rows.Close()
	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.LevelID, &c.BankCategoryID, &c.IncludeSubcategories); err != nil {
			log.Error("failed to scan category row: %v", err)
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) Insert(ctx context.Context, c models.Category) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("inserting category: level=%d, mdl_category=%d", c.LevelID, c.BankCategoryID)

	res, err := r.q.ExecContext(ctx, `INSERT INTO categories (level, mdl_category, subcategories) VALUES (?, ?, ?)`,
		c.LevelID, c.BankCategoryID, c.IncludeSubcategories)
	if err != nil {
		log.Error("failed to insert category: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("deleting category: id=%d", id)

	if _, err := r.q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		log.Error("failed to delete category: %v", err)
		return err
	}
	return nil
}

func (r *categoryRepository) DeleteByGame(ctx context.Context, gameID int64) error {
	log := logger.FromContext(ctx).WithPrefix("category_repo")
	log.Debug("deleting categories: game=%d", gameID)

	_, err := r.q.ExecContext(ctx, `DELETE FROM categories WHERE level IN (SELECT id FROM levels WHERE game = ?)`, gameID)
	if err != nil {
		log.Error("failed to delete categories: %v", err)
	}
	return err
}
