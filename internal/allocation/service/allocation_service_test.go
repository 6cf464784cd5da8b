package service

import (
	"context"
	"errors"
	"testing"
	"time"

	activityMocks "github.com/ridloal/blood-portal/internal/activity/service/mocks"
	"github.com/ridloal/blood-portal/internal/allocation/domain"
	"github.com/ridloal/blood-portal/internal/allocation/service/mocks"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/cache"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var pmiSession = &session.Session{UserID: "u1", InstitutionID: "pmi-1", InstitutionType: session.TypePMI}

func TestAllocationService_PlanPickup(t *testing.T) {
	client := new(mocks.MockAllocationClient)
	svc := NewAllocationService(client, cache.NewMemory(), time.Minute, new(activityMocks.MockRecorder))
	ctx := context.Background()

	client.On("GetRequest", ctx, "br-1").Return(&domain.RequestRef{ID: "br-1", Quantity: 10}, nil).Once()
	client.On("GetSources", ctx, "br-1").Return(&domain.PickupSources{Allocations: allocs(3), FreeStock: stock(4, 6)}, nil).Once()

	plan, err := svc.PlanPickup(ctx, "br-1")
	assert.NoError(t, err)
	assert.Equal(t, domain.StrategyAllocationAndFreeStock, plan.Strategy)
	assert.Equal(t, 10, TotalSelected(plan))
	client.AssertExpectations(t)
}

func TestAllocationService_CreatePickup(t *testing.T) {
	ctx := context.Background()
	sources := func() *domain.PickupSources {
		return &domain.PickupSources{Allocations: allocs(3), FreeStock: stock(4, 6)}
	}

	t.Run("Auto-filled plan is posted", func(t *testing.T) {
		client := new(mocks.MockAllocationClient)
		recorder := new(activityMocks.MockRecorder)
		svc := NewAllocationService(client, cache.NewMemory(), time.Minute, recorder)

		client.On("GetRequest", ctx, "br-1").Return(&domain.RequestRef{ID: "br-1", Quantity: 10}, nil).Once()
		client.On("GetSources", ctx, "br-1").Return(sources(), nil).Once()
		client.On("CreatePickup", ctx, mock.MatchedBy(func(b domain.BackendPickupRequest) bool {
			return b.TotalQuantity == 10 &&
				len(b.Allocations) == 1 && b.Allocations[0].Quantity == 3 &&
				len(b.FreeStock) == 2 && b.FreeStock[0].Quantity == 4 && b.FreeStock[1].Quantity == 3
		})).Return(&domain.Pickup{ID: "p1", PickupCode: "PK7Q2M9A"}, &apiclient.MutationResult{Success: true, Message: "Pickup scheduled"}, nil).Once()
		recorder.On("Record", ctx, mock.Anything).Once()

		pickup, result, err := svc.CreatePickup(ctx, pmiSession, "br-1", domain.CreatePickupRequest{PickupDate: "2026-10-20", PickupTime: "09:00"})
		assert.NoError(t, err)
		assert.Equal(t, "PK7Q2M9A", pickup.PickupCode)
		assert.Equal(t, "Pickup scheduled", result.Message)
		client.AssertExpectations(t)
		recorder.AssertExpectations(t)
	})

	t.Run("Operator selection replaces the default split", func(t *testing.T) {
		client := new(mocks.MockAllocationClient)
		recorder := new(activityMocks.MockRecorder)
		svc := NewAllocationService(client, cache.NewMemory(), time.Minute, recorder)

		client.On("GetRequest", ctx, "br-1").Return(&domain.RequestRef{ID: "br-1", Quantity: 10}, nil).Once()
		client.On("GetSources", ctx, "br-1").Return(sources(), nil).Once()
		client.On("CreatePickup", ctx, mock.MatchedBy(func(b domain.BackendPickupRequest) bool {
			return b.TotalQuantity == 10 && len(b.FreeStock) == 2 && b.FreeStock[0].Quantity == 1 && b.FreeStock[1].Quantity == 6
		})).Return(&domain.Pickup{ID: "p2", PickupCode: "PK000002"}, &apiclient.MutationResult{Success: true}, nil).Once()
		recorder.On("Record", ctx, mock.Anything).Once()

		_, _, err := svc.CreatePickup(ctx, pmiSession, "br-1", domain.CreatePickupRequest{
			PickupDate:  "2026-10-20",
			PickupTime:  "09:00",
			Allocations: []domain.SourceQuantity{{ID: "al-1", Quantity: 3}},
			FreeStock:   []domain.SourceQuantity{{ID: "fs-1", Quantity: 1}, {ID: "fs-2", Quantity: 6}},
		})
		assert.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("Over-ceiling selection is rejected before posting", func(t *testing.T) {
		client := new(mocks.MockAllocationClient)
		svc := NewAllocationService(client, cache.NewMemory(), time.Minute, new(activityMocks.MockRecorder))

		client.On("GetRequest", ctx, "br-1").Return(&domain.RequestRef{ID: "br-1", Quantity: 10}, nil).Once()
		client.On("GetSources", ctx, "br-1").Return(sources(), nil).Once()

		_, _, err := svc.CreatePickup(ctx, pmiSession, "br-1", domain.CreatePickupRequest{
			PickupDate: "2026-10-20",
			PickupTime: "09:00",
			FreeStock:  []domain.SourceQuantity{{ID: "fs-1", Quantity: 9}},
		})
		assert.ErrorIs(t, err, ErrExceedsAvailable)
		client.AssertNotCalled(t, "CreatePickup", mock.Anything, mock.Anything)
	})

	t.Run("Shortage never reaches the backend", func(t *testing.T) {
		client := new(mocks.MockAllocationClient)
		svc := NewAllocationService(client, cache.NewMemory(), time.Minute, new(activityMocks.MockRecorder))

		client.On("GetRequest", ctx, "br-2").Return(&domain.RequestRef{ID: "br-2", Quantity: 20}, nil).Once()
		client.On("GetSources", ctx, "br-2").Return(sources(), nil).Once()

		_, _, err := svc.CreatePickup(ctx, pmiSession, "br-2", domain.CreatePickupRequest{PickupDate: "2026-10-20", PickupTime: "09:00"})
		assert.ErrorIs(t, err, ErrInsufficientSelection)
		client.AssertNotCalled(t, "CreatePickup", mock.Anything, mock.Anything)
	})

	t.Run("Schedule is required", func(t *testing.T) {
		client := new(mocks.MockAllocationClient)
		svc := NewAllocationService(client, cache.NewMemory(), time.Minute, new(activityMocks.MockRecorder))

		_, _, err := svc.CreatePickup(ctx, pmiSession, "br-1", domain.CreatePickupRequest{PickupDate: "2026-10-20", PickupTime: " "})
		assert.ErrorIs(t, err, ErrScheduleRequired)
		client.AssertNotCalled(t, "GetRequest", mock.Anything, mock.Anything)
	})
}

func TestAllocationService_GetSummaryCached(t *testing.T) {
	client := new(mocks.MockAllocationClient)
	svc := NewAllocationService(client, cache.NewMemory(), time.Minute, new(activityMocks.MockRecorder))
	ctx := context.Background()

	client.On("GetSummary", ctx, "br-1").Return(&domain.AllocationSummary{TotalAllocation: 2, TotalFreeStock: 3, TotalAvailable: 5}, nil).Once()

	first, err := svc.GetSummary(ctx, "pmi-1", "br-1")
	assert.NoError(t, err)
	second, err := svc.GetSummary(ctx, "pmi-1", "br-1")
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	client.AssertNumberOfCalls(t, "GetSummary", 1)

	t.Run("Errors are not cached", func(t *testing.T) {
		client.On("GetSummary", ctx, "br-2").Return(nil, errors.New("boom")).Once()
		client.On("GetSummary", ctx, "br-2").Return(&domain.AllocationSummary{TotalAvailable: 1}, nil).Once()

		_, err := svc.GetSummary(ctx, "pmi-1", "br-2")
		assert.Error(t, err)
		s, err := svc.GetSummary(ctx, "pmi-1", "br-2")
		assert.NoError(t, err)
		assert.Equal(t, 1, s.TotalAvailable)
	})

	t.Run("Other institutions do not share the entry", func(t *testing.T) {
		client.On("GetSummary", ctx, "br-1").Return(&domain.AllocationSummary{TotalFreeStock: 9, TotalAvailable: 9}, nil).Once()

		s, err := svc.GetSummary(ctx, "pmi-2", "br-1")
		assert.NoError(t, err)
		assert.Equal(t, 9, s.TotalAvailable)
		client.AssertNumberOfCalls(t, "GetSummary", 4)

		s, err = svc.GetSummary(ctx, "pmi-1", "br-1")
		assert.NoError(t, err)
		assert.Equal(t, 5, s.TotalAvailable)
	})
}
