package mocks

import (
	"context"

	"github.com/ridloal/blood-portal/internal/notification/domain"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/stretchr/testify/mock"
)

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Open(ctx context.Context, institutionID string) (domain.Snapshot, error) {
	args := m.Called(ctx, institutionID)
	return args.Get(0).(domain.Snapshot), args.Error(1)
}

func (m *MockNotificationService) Close(institutionID string) {
	m.Called(institutionID)
}

func (m *MockNotificationService) List(ctx context.Context, institutionID string) (domain.Snapshot, error) {
	args := m.Called(ctx, institutionID)
	return args.Get(0).(domain.Snapshot), args.Error(1)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, institutionID string) (int, error) {
	args := m.Called(ctx, institutionID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, sess *session.Session, id string) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllAsRead(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}
