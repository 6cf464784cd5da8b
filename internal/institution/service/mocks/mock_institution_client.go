package mocks

import (
	"context"

	"github.com/ridloal/blood-portal/internal/institution/domain"
	"github.com/stretchr/testify/mock"
)

type MockInstitutionClient struct {
	mock.Mock
}

func (m *MockInstitutionClient) GetProfile(ctx context.Context, id string) (*domain.Institution, error) {
	args := m.Called(ctx, id)
	if i := args.Get(0); i != nil {
		return i.(*domain.Institution), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInstitutionClient) ListPartners(ctx context.Context, id string) ([]domain.Partner, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.([]domain.Partner), args.Error(1)
	}
	return nil, args.Error(1)
}
