package mocks

import (
	"context"

	"github.com/ridloal/blood-portal/internal/donor/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/stretchr/testify/mock"
)

type MockDonorClient struct {
	mock.Mock
}

func (m *MockDonorClient) ListRanked(ctx context.Context, fulfillmentID string) ([]domain.RankedDonor, error) {
	args := m.Called(ctx, fulfillmentID)
	if d := args.Get(0); d != nil {
		return d.([]domain.RankedDonor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDonorClient) Notify(ctx context.Context, fulfillmentID string, donorIDs []string) (*domain.NotifyResult, *apiclient.MutationResult, error) {
	args := m.Called(ctx, fulfillmentID, donorIDs)
	var out *domain.NotifyResult
	if o := args.Get(0); o != nil {
		out = o.(*domain.NotifyResult)
	}
	var result *apiclient.MutationResult
	if r := args.Get(1); r != nil {
		result = r.(*apiclient.MutationResult)
	}
	return out, result, args.Error(2)
}
