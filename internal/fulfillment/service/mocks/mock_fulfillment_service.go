package mocks

import (
	"context"

	"github.com/ridloal/blood-portal/internal/fulfillment/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/stretchr/testify/mock"
)

type MockFulfillmentService struct {
	mock.Mock
}

func (m *MockFulfillmentService) GetDetail(ctx context.Context, id string) (*domain.FulfillmentDetail, error) {
	args := m.Called(ctx, id)
	if d := args.Get(0); d != nil {
		return d.(*domain.FulfillmentDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFulfillmentService) ListConfirmations(ctx context.Context, id string) ([]domain.DonorConfirmation, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.([]domain.DonorConfirmation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFulfillmentService) Initiate(ctx context.Context, sess *session.Session, id string) (*apiclient.MutationResult, error) {
	args := m.Called(ctx, sess, id)
	if r := args.Get(0); r != nil {
		return r.(*apiclient.MutationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFulfillmentService) Cancel(ctx context.Context, sess *session.Session, id, reason string) (*apiclient.MutationResult, error) {
	args := m.Called(ctx, sess, id, reason)
	if r := args.Get(0); r != nil {
		return r.(*apiclient.MutationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFulfillmentService) Stats(ctx context.Context, pmiID string) (*domain.FulfillmentStats, error) {
	args := m.Called(ctx, pmiID)
	if s := args.Get(0); s != nil {
		return s.(*domain.FulfillmentStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFulfillmentService) Watch(ctx context.Context, id string) (*domain.FulfillmentDetail, error) {
	args := m.Called(ctx, id)
	if d := args.Get(0); d != nil {
		return d.(*domain.FulfillmentDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFulfillmentService) Unwatch(id string) {
	m.Called(id)
}
