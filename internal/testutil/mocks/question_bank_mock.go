package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/millionaire/internal/models"
)

// MockQuestionBank is a mock implementation of repository.QuestionBank
type MockQuestionBank struct {
	mock.Mock
}

func (m *MockQuestionBank) CategoryIDs(ctx context.Context, id int64, includeSubcategories bool) ([]int64, error) {
	args := m.Called(ctx, id, includeSubcategories)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockQuestionBank) QuestionIDs(ctx context.Context, categoryIDs []int64, qtypes []string) ([]int64, error) {
	args := m.Called(ctx, categoryIDs, qtypes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockQuestionBank) Question(ctx context.Context, id int64) (*models.BankQuestion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BankQuestion), args.Error(1)
}
