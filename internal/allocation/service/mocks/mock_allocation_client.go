package mocks

import (
	"context"

	"github.com/ridloal/blood-portal/internal/allocation/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/stretchr/testify/mock"
)

type MockAllocationClient struct {
	mock.Mock
}

func (m *MockAllocationClient) GetRequest(ctx context.Context, requestID string) (*domain.RequestRef, error) {
	args := m.Called(ctx, requestID)
	if r := args.Get(0); r != nil {
		return r.(*domain.RequestRef), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAllocationClient) GetSources(ctx context.Context, requestID string) (*domain.PickupSources, error) {
	args := m.Called(ctx, requestID)
	if s := args.Get(0); s != nil {
		return s.(*domain.PickupSources), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAllocationClient) GetSummary(ctx context.Context, requestID string) (*domain.AllocationSummary, error) {
	args := m.Called(ctx, requestID)
	if s := args.Get(0); s != nil {
		return s.(*domain.AllocationSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAllocationClient) CreatePickup(ctx context.Context, req domain.BackendPickupRequest) (*domain.Pickup, *apiclient.MutationResult, error) {
	args := m.Called(ctx, req)
	var pickup *domain.Pickup
	if p := args.Get(0); p != nil {
		pickup = p.(*domain.Pickup)
	}
	var result *apiclient.MutationResult
	if r := args.Get(1); r != nil {
		result = r.(*apiclient.MutationResult)
	}
	return pickup, result, args.Error(2)
}
