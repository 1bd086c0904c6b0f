package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDirectory is a mock implementation of repository.Directory
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) UserName(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockDirectory) HasCapability(ctx context.Context, gameID, userID int64, capability string) (bool, error) {
	args := m.Called(ctx, gameID, userID, capability)
	return args.Bool(0), args.Error(1)
}

func (m *MockDirectory) UpsertUser(ctx context.Context, userID int64, name string) error {
	args := m.Called(ctx, userID, name)
	return args.Error(0)
}

func (m *MockDirectory) Grant(ctx context.Context, gameID, userID int64, capability string) error {
	args := m.Called(ctx, gameID, userID, capability)
	return args.Error(0)
}
