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

// BankRepository reads and loads the question bank tables.
type BankRepository struct {
	db *sql.DB
}

var (
	_ repository.QuestionBank = (*BankRepository)(nil)
	_ repository.BankWriter   = (*BankRepository)(nil)
)

// NewBankRepository creates a question bank backed by db
func NewBankRepository(db *sql.DB) *BankRepository {
	return &BankRepository{db: db}
}

func (r *BankRepository) CategoryIDs(ctx context.Context, id int64, includeSubcategories bool) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("bank_repo")
	if !includeSubcategories {
		return []int64{id}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
WITH RECURSIVE tree(id) AS (
    SELECT id FROM bank_categories WHERE id = ?
    UNION
    SELECT c.id FROM bank_categories c JOIN tree t ON c.parent = t.id
)
SELECT id FROM tree ORDER BY id
`, id)
	if err != nil {
		log.Error("failed to resolve category tree: %v", err)
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var cid int64
		if err := rows.Scan(&cid); err != nil {
			return nil, err
		}
		ids = append(ids, cid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		ids = []int64{id}
	}
	log.Debug("category %d resolves to %d categories", id, len(ids))
	return ids, nil
}

func (r *BankRepository) QuestionIDs(ctx context.Context, categoryIDs []int64, qtypes []string) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("bank_repo")

	sqlStr, args, err := sqlBuilder.Select("id").From("bank_questions").
		Where(squirrel.Eq{"category": categoryIDs}).
		Where(squirrel.Eq{"qtype": qtypes}).
		OrderBy("id").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list bank questions: %v", err)
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
	log.Debug("found %d eligible bank questions in %d categories", len(ids), len(categoryIDs))
	return ids, rows.Err()
}

func (r *BankRepository) Question(ctx context.Context, id int64) (*models.BankQuestion, error) {
	log := logger.FromContext(ctx).WithPrefix("bank_repo")

	var q models.BankQuestion
	err := r.db.QueryRowContext(ctx, `
SELECT id, category, qtype, name, question_text, general_feedback
FROM bank_questions
WHERE id = ?
`, id).Scan(&q.ID, &q.CategoryID, &q.QType, &q.Name, &q.Text, &q.GeneralFeedback)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error("failed to get bank question: %v", err)
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, answer, feedback, fraction
FROM bank_answers
WHERE question = ?
ORDER BY id
`, id)
	if err != nil {
		log.Error("failed to list bank answers: %v", err)
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var a models.BankAnswer
		if err := rows.Scan(&a.ID, &a.Text, &a.Feedback, &a.Fraction); err != nil {
			return nil, err
		}
		q.Answers = append(q.Answers, a)
	}
	return &q, rows.Err()
}

func (r *BankRepository) UpsertCategory(ctx context.Context, c models.BankCategory) error {
	log := logger.FromContext(ctx).WithPrefix("bank_repo")
	log.Debug("upserting bank category: id=%d, parent=%d", c.ID, c.ParentID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO bank_categories (id, parent, name) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET parent = excluded.parent, name = excluded.name
`, c.ID, c.ParentID, c.Name)
	if err != nil {
		log.Error("failed to upsert bank category: %v", err)
	}
	return err
}

// UpsertQuestion replaces the question and its full answer set.
func (r *BankRepository) UpsertQuestion(ctx context.Context, q models.BankQuestion) error {
	log := logger.FromContext(ctx).WithPrefix("bank_repo")
	log.Debug("upserting bank question: id=%d, answers=%d", q.ID, len(q.Answers))

	return tx(ctx, r.db, func(t *sql.Tx) error {
		if _, err := t.ExecContext(ctx, `
INSERT INTO bank_questions (id, category, qtype, name, question_text, general_feedback)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    category = excluded.category,
    qtype = excluded.qtype,
    name = excluded.name,
    question_text = excluded.question_text,
    general_feedback = excluded.general_feedback
`, q.ID, q.CategoryID, q.QType, q.Name, q.Text, q.GeneralFeedback); err != nil {
			log.Error("failed to upsert bank question: %v", err)
			return err
		}
		if _, err := t.ExecContext(ctx, `DELETE FROM bank_answers WHERE question = ?`, q.ID); err != nil {
			return err
		}
		stmt, err := t.PrepareContext(ctx, `INSERT INTO bank_answers (id, question, answer, feedback, fraction) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, a := range q.Answers {
			if _, err := stmt.ExecContext(ctx, a.ID, q.ID, a.Text, a.Feedback, a.Fraction); err != nil {
				log.Error("failed to insert bank answer %d: %v", a.ID, err)
				return err
			}
		}
		return nil
	})
}
