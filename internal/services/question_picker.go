package services

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/vytor/millionaire/internal/errors"
	"github.com/vytor/millionaire/internal/logger"
	"github.com/vytor/millionaire/internal/models"
	"github.com/vytor/millionaire/internal/repository"
)

// QuestionPicker chooses the bank question shown to a player on a level
type QuestionPicker interface {
	PickRandomQuestion(ctx context.Context, game models.Game, level models.Level, userID int64) (*models.BankQuestion, error)
}

type questionPicker struct {
	store repository.Store
	bank  repository.QuestionBank
	rnd   Rand
}

// NewQuestionPicker creates a QuestionPicker drawing from bank with rnd
func NewQuestionPicker(store repository.Store, bank repository.QuestionBank, rnd Rand) QuestionPicker {
	return &questionPicker{store: store, bank: bank, rnd: rnd}
}

func (p *questionPicker) PickRandomQuestion(ctx context.Context, game models.Game, level models.Level, userID int64) (*models.BankQuestion, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"game_id": game.ID, "level_id": level.ID})

	categories, err := p.store.Categories().ListByLevel(ctx, level.ID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if len(categories) == 0 {
		log.Warn("level has no categories")
		return nil, errors.NewNoQuestionsAvailableError(level.ID)
	}
	category := categories[p.rnd.Intn(len(categories))]

	categoryIDs, err := p.bank.CategoryIDs(ctx, category.BankCategoryID, category.IncludeSubcategories)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	pool, err := p.bank.QuestionIDs(ctx, categoryIDs, models.SingleChoiceQTypes)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	if !game.QuestionRepeatable && len(pool) > 0 {
		shown, err := p.store.Questions().ShownBankQuestionIDs(ctx, game.ID, userID)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if fresh := without(pool, shown); len(fresh) > 0 {
			pool = fresh
		} else {
			log.Debug("user %d has seen every question of category %d, repeating", userID, category.BankCategoryID)
		}
	}

	if len(pool) == 0 {
		log.Warn("no eligible questions in bank category %d", category.BankCategoryID)
		return nil, errors.NewNoQuestionsAvailableError(level.ID)
	}

	id := pool[p.rnd.Intn(len(pool))]
	question, err := p.bank.Question(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("bank question", id)
		}
		return nil, errors.NewInternalError(err)
	}
	log.Debug("picked bank question %d from %d candidates", id, len(pool))
	return question, nil
}

func without(ids, exclude []int64) []int64 {
	skip := make(map[int64]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !skip[id] {
			out = append(out, id)
		}
	}
	return out
}
