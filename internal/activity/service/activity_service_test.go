package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ridloal/blood-portal/internal/activity/domain"
	"github.com/ridloal/blood-portal/internal/activity/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestActivityService_Record(t *testing.T) {
	t.Run("Stores entry", func(t *testing.T) {
		repo := new(mocks.MockActivityRepository)
		svc := NewActivityService(repo)
		repo.On("Insert", mock.Anything, mock.MatchedBy(func(e *domain.Entry) bool {
			return e.Action == domain.ActionRequestApproved && e.ResourceID == "br-1"
		})).Return(nil).Once()

		svc.Record(context.Background(), domain.Entry{InstitutionID: "pmi-1", Action: domain.ActionRequestApproved, ResourceID: "br-1"})
		repo.AssertExpectations(t)
	})

	t.Run("Repository failure is swallowed", func(t *testing.T) {
		repo := new(mocks.MockActivityRepository)
		svc := NewActivityService(repo)
		repo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

		assert.NotPanics(t, func() {
			svc.Record(context.Background(), domain.Entry{InstitutionID: "pmi-1"})
		})
		repo.AssertExpectations(t)
	})

	t.Run("Cancelled request context still records", func(t *testing.T) {
		repo := new(mocks.MockActivityRepository)
		svc := NewActivityService(repo)
		repo.On("Insert", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), mock.Anything).Return(nil).Once()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		svc.Record(ctx, domain.Entry{InstitutionID: "pmi-1"})
		repo.AssertExpectations(t)
	})

	t.Run("Disabled journal", func(t *testing.T) {
		svc := NewActivityService(nil)
		svc.Record(context.Background(), domain.Entry{InstitutionID: "pmi-1"})
		entries, err := svc.List(context.Background(), "pmi-1", nil, 10)
		assert.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestActivityService_ListClampsLimit(t *testing.T) {
	repo := new(mocks.MockActivityRepository)
	svc := NewActivityService(repo)
	ctx := context.Background()

	repo.On("List", ctx, domain.ListFilter{InstitutionID: "pmi-1", Limit: defaultListLimit}).Return([]domain.Entry{}, nil).Once()
	repo.On("List", ctx, domain.ListFilter{InstitutionID: "pmi-1", Limit: maxListLimit}).Return([]domain.Entry{{ID: "a"}}, nil).Once()

	_, err := svc.List(ctx, "pmi-1", nil, 0)
	assert.NoError(t, err)
	entries, err := svc.List(ctx, "pmi-1", nil, 1000)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	repo.AssertExpectations(t)
}
