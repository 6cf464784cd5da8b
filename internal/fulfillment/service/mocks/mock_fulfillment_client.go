package mocks

import (
	"context"

	"github.com/ridloal/blood-portal/internal/fulfillment/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/stretchr/testify/mock"
)

type MockFulfillmentClient struct {
	mock.Mock
}

func (m *MockFulfillmentClient) GetFulfillment(ctx context.Context, id string) (*domain.FulfillmentRequest, error) {
	args := m.Called(ctx, id)
	if f := args.Get(0); f != nil {
		return f.(*domain.FulfillmentRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFulfillmentClient) ListConfirmations(ctx context.Context, id string) ([]domain.DonorConfirmation, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.([]domain.DonorConfirmation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFulfillmentClient) Initiate(ctx context.Context, id string) (*apiclient.MutationResult, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*apiclient.MutationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFulfillmentClient) Cancel(ctx context.Context, id, reason string) (*apiclient.MutationResult, error) {
	args := m.Called(ctx, id, reason)
	if r := args.Get(0); r != nil {
		return r.(*apiclient.MutationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFulfillmentClient) GetStats(ctx context.Context, pmiID string) (*domain.FulfillmentStats, error) {
	args := m.Called(ctx, pmiID)
	if s := args.Get(0); s != nil {
		return s.(*domain.FulfillmentStats), args.Error(1)
	}
	return nil, args.Error(1)
}
