package mocks

import (
	"context"
	"time"

	"github.com/ridloal/blood-portal/internal/stock/domain"
	"github.com/stretchr/testify/mock"
)

type MockStockClient struct {
	mock.Mock
}

func (m *MockStockClient) List(ctx context.Context, institutionID string) ([]domain.BloodStock, error) {
	args := m.Called(ctx, institutionID)
	if s := args.Get(0); s != nil {
		return s.([]domain.BloodStock), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) List(ctx context.Context, institutionID string) ([]domain.BloodStock, error) {
	args := m.Called(ctx, institutionID)
	if s := args.Get(0); s != nil {
		return s.([]domain.BloodStock), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStockService) Summary(ctx context.Context, institutionID string, now time.Time) (*domain.Summary, error) {
	args := m.Called(ctx, institutionID, now)
	if s := args.Get(0); s != nil {
		return s.(*domain.Summary), args.Error(1)
	}
	return nil, args.Error(1)
}
