package mocks

import (
	"context"

	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/ridloal/blood-portal/internal/verification/domain"
	"github.com/stretchr/testify/mock"
)

type MockVerificationClient struct {
	mock.Mock
}

func (m *MockVerificationClient) VerifyDonorCode(ctx context.Context, req domain.BackendVerifyRequest) (*domain.DonorVerification, *apiclient.MutationResult, error) {
	args := m.Called(ctx, req)
	var out *domain.DonorVerification
	if v := args.Get(0); v != nil {
		out = v.(*domain.DonorVerification)
	}
	return out, result(args), args.Error(2)
}

func (m *MockVerificationClient) VerifyPickupCode(ctx context.Context, req domain.BackendVerifyRequest) (*domain.PickupVerification, *apiclient.MutationResult, error) {
	args := m.Called(ctx, req)
	var out *domain.PickupVerification
	if v := args.Get(0); v != nil {
		out = v.(*domain.PickupVerification)
	}
	return out, result(args), args.Error(2)
}

type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) VerifyDonorCode(ctx context.Context, sess *session.Session, code string) (*domain.DonorVerification, *apiclient.MutationResult, error) {
	args := m.Called(ctx, sess, code)
	var out *domain.DonorVerification
	if v := args.Get(0); v != nil {
		out = v.(*domain.DonorVerification)
	}
	return out, result(args), args.Error(2)
}

func (m *MockVerificationService) VerifyPickupCode(ctx context.Context, sess *session.Session, code string) (*domain.PickupVerification, *apiclient.MutationResult, error) {
	args := m.Called(ctx, sess, code)
	var out *domain.PickupVerification
	if v := args.Get(0); v != nil {
		out = v.(*domain.PickupVerification)
	}
	return out, result(args), args.Error(2)
}

func result(args mock.Arguments) *apiclient.MutationResult {
	if r := args.Get(1); r != nil {
		return r.(*apiclient.MutationResult)
	}
	return nil
}
