package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/millionaire/internal/models"
)

// MockQuestionPicker is a mock implementation of services.QuestionPicker
type MockQuestionPicker struct {
	mock.Mock
}

func (m *MockQuestionPicker) PickRandomQuestion(ctx context.Context, game models.Game, level models.Level, userID int64) (*models.BankQuestion, error) {
	args := m.Called(ctx, game, level, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BankQuestion), args.Error(1)
}
