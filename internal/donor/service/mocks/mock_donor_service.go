package mocks

import (
	"context"

	"github.com/ridloal/blood-portal/internal/donor/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/stretchr/testify/mock"
)

type MockDonorService struct {
	mock.Mock
}

func (m *MockDonorService) ListRanked(ctx context.Context, fulfillmentID string) ([]domain.RankedDonor, error) {
	args := m.Called(ctx, fulfillmentID)
	if d := args.Get(0); d != nil {
		return d.([]domain.RankedDonor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDonorService) NotifySelected(ctx context.Context, sess *session.Session, fulfillmentID string, donorIDs []string) (*domain.NotifyResult, *apiclient.MutationResult, error) {
	args := m.Called(ctx, sess, fulfillmentID, donorIDs)
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
