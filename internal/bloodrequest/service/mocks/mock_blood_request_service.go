package mocks

import (
	"context"

	"github.com/ridloal/blood-portal/internal/bloodrequest/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/stretchr/testify/mock"
	"github.com/xuri/excelize/v2"
)

type MockBloodRequestService struct {
	mock.Mock
}

func (m *MockBloodRequestService) List(ctx context.Context, sess *session.Session, filter domain.ListFilter) (*domain.ListResult, error) {
	args := m.Called(ctx, sess, filter)
	if r := args.Get(0); r != nil {
		return r.(*domain.ListResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBloodRequestService) Get(ctx context.Context, sess *session.Session, id string) (*domain.BloodRequest, error) {
	args := m.Called(ctx, sess, id)
	if r := args.Get(0); r != nil {
		return r.(*domain.BloodRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBloodRequestService) Create(ctx context.Context, sess *session.Session, req domain.CreateBloodRequest) (*domain.BloodRequest, *apiclient.MutationResult, error) {
	args := m.Called(ctx, sess, req)
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

func (m *MockBloodRequestService) Approve(ctx context.Context, sess *session.Session, id string) (*apiclient.MutationResult, error) {
	args := m.Called(ctx, sess, id)
	return mutation(args)
}

func (m *MockBloodRequestService) Reject(ctx context.Context, sess *session.Session, id, reason string) (*apiclient.MutationResult, error) {
	args := m.Called(ctx, sess, id, reason)
	return mutation(args)
}

func (m *MockBloodRequestService) Cancel(ctx context.Context, sess *session.Session, id, reason string) (*apiclient.MutationResult, error) {
	args := m.Called(ctx, sess, id, reason)
	return mutation(args)
}

func (m *MockBloodRequestService) Export(ctx context.Context, sess *session.Session, filter domain.ListFilter) (*excelize.File, string, error) {
	args := m.Called(ctx, sess, filter)
	if f := args.Get(0); f != nil {
		return f.(*excelize.File), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}
