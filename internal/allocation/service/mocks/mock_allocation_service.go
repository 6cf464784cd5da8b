package mocks

import (
	"context"

	"github.com/ridloal/blood-portal/internal/allocation/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/stretchr/testify/mock"
)

type MockAllocationService struct {
	mock.Mock
}

func (m *MockAllocationService) GetSources(ctx context.Context, requestID string) (*domain.PickupSources, error) {
	args := m.Called(ctx, requestID)
	if s := args.Get(0); s != nil {
		return s.(*domain.PickupSources), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAllocationService) PlanPickup(ctx context.Context, requestID string) (*domain.PickupPlan, error) {
	args := m.Called(ctx, requestID)
	if p := args.Get(0); p != nil {
		return p.(*domain.PickupPlan), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAllocationService) CreatePickup(ctx context.Context, sess *session.Session, requestID string, req domain.CreatePickupRequest) (*domain.Pickup, *apiclient.MutationResult, error) {
	args := m.Called(ctx, sess, requestID, req)
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

func (m *MockAllocationService) GetSummary(ctx context.Context, institutionID, requestID string) (*domain.AllocationSummary, error) {
	args := m.Called(ctx, institutionID, requestID)
	if s := args.Get(0); s != nil {
		return s.(*domain.AllocationSummary), args.Error(1)
	}
	return nil, args.Error(1)
}
