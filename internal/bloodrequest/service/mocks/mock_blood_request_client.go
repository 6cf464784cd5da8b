package mocks

import (
	"context"

	"github.com/ridloal/blood-portal/internal/bloodrequest/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/stretchr/testify/mock"
)

type MockBloodRequestClient struct {
	mock.Mock
}

func (m *MockBloodRequestClient) List(ctx context.Context, sess *session.Session) ([]domain.BloodRequest, error) {
	args := m.Called(ctx, sess)
	if rows := args.Get(0); rows != nil {
		return rows.([]domain.BloodRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBloodRequestClient) Get(ctx context.Context, id string) (*domain.BloodRequest, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*domain.BloodRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBloodRequestClient) Create(ctx context.Context, req domain.CreateBloodRequest) (*domain.BloodRequest, *apiclient.MutationResult, error) {
	args := m.Called(ctx, req)
	var created *domain.BloodRequest
	if r := args.Get(0); r != nil {
		created = r.(*domain.BloodRequest)
	}
	var result *apiclient.MutationResult
	if r := args.Get(1); r != nil {
		result = r.(*apiclient.MutationResult)
	}
	return created, result, args.Error(2)
}

func (m *MockBloodRequestClient) Approve(ctx context.Context, id string) (*apiclient.MutationResult, error) {
	args := m.Called(ctx, id)
	return mutation(args)
}

func (m *MockBloodRequestClient) Reject(ctx context.Context, id, reason string) (*apiclient.MutationResult, error) {
	args := m.Called(ctx, id, reason)
	return mutation(args)
}

func (m *MockBloodRequestClient) Cancel(ctx context.Context, id, reason string) (*apiclient.MutationResult, error) {
	args := m.Called(ctx, id, reason)
	return mutation(args)
}

func mutation(args mock.Arguments) (*apiclient.MutationResult, error) {
	if r := args.Get(0); r != nil {
		return r.(*apiclient.MutationResult), args.Error(1)
	}
	return nil, args.Error(1)
}
