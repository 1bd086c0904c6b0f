package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/millionaire/internal/models"
)

// MockScoreCache is a mock implementation of cache.ScoreCache
type MockScoreCache struct {
	mock.Mock
}

func (m *MockScoreCache) Get(ctx context.Context, gameID int64) ([]models.ScoreRow, bool) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]models.ScoreRow), args.Bool(1)
}

func (m *MockScoreCache) Set(ctx context.Context, gameID int64, rows []models.ScoreRow) {
	m.Called(ctx, gameID, rows)
}

func (m *MockScoreCache) Invalidate(ctx context.Context, gameID int64) {
	m.Called(ctx, gameID)
}
