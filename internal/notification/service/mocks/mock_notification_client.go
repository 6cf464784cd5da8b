package mocks

import (
	"context"

	"github.com/ridloal/blood-portal/internal/notification/domain"
	"github.com/stretchr/testify/mock"
)

type MockNotificationClient struct {
	mock.Mock
}

func (m *MockNotificationClient) ListRecent(ctx context.Context, institutionID string, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, institutionID, limit)
	if n := args.Get(0); n != nil {
		return n.([]domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNotificationClient) UnreadCount(ctx context.Context, institutionID string) (int, error) {
	args := m.Called(ctx, institutionID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationClient) MarkAsRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationClient) MarkAllAsRead(ctx context.Context, institutionID string) error {
	args := m.Called(ctx, institutionID)
	return args.Error(0)
}
