package mocks

import (
	"context"

	"github.com/ridloal/blood-portal/internal/platform/realtime"
	"github.com/stretchr/testify/mock"
)

type MockSubscriber struct {
	mock.Mock
}

func (m *MockSubscriber) Subscribe(ctx context.Context, filter realtime.Filter, onInsert, onUpdate realtime.Handler) (realtime.Subscription, error) {
	args := m.Called(ctx, filter, onInsert, onUpdate)
	if s := args.Get(0); s != nil {
		return s.(realtime.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSubscription struct {
	mock.Mock
}

func (m *MockSubscription) Unsubscribe() {
	m.Called()
}
