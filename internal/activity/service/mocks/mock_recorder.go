package mocks

import (
	"context"

	"github.com/ridloal/blood-portal/internal/activity/domain"
	"github.com/stretchr/testify/mock"
)

// MockRecorder records calls only; tests that do not care can use On("Record", ...).Maybe().
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, entry domain.Entry) {
	m.Called(ctx, entry)
}
