package mocks

import (
	"context"

	"github.com/ridloal/blood-portal/internal/activity/domain"
	"github.com/stretchr/testify/mock"
)

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockActivityRepository) Insert(ctx context.Context, entry *domain.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockActivityRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Entry, error) {
	args := m.Called(ctx, filter)
	if e := args.Get(0); e != nil {
		return e.([]domain.Entry), args.Error(1)
	}
	return nil, args.Error(1)
}
