package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	activityDomain "github.com/ridloal/blood-portal/internal/activity/domain"
	activityService "github.com/ridloal/blood-portal/internal/activity/service"
	"github.com/ridloal/blood-portal/internal/allocation/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/cache"
	"github.com/ridloal/blood-portal/internal/platform/logger"
	"github.com/ridloal/blood-portal/internal/platform/session"
)

var (
	ErrInsufficientSelection = errors.New("selected units do not cover the requested quantity")
	ErrScheduleRequired      = errors.New("pickup date and time are required")
)

type AllocationService interface {
	GetSources(ctx context.Context, requestID string) (*domain.PickupSources, error)
	PlanPickup(ctx context.Context, requestID string) (*domain.PickupPlan, error)
	CreatePickup(ctx context.Context, sess *session.Session, requestID string, req domain.CreatePickupRequest) (*domain.Pickup, *apiclient.MutationResult, error)
	GetSummary(ctx context.Context, institutionID, requestID string) (*domain.AllocationSummary, error)
}

type allocationServiceImpl struct {
	client   AllocationClient
	cache    cache.SummaryCache
	cacheTTL time.Duration
	activity activityService.Recorder
}

func NewAllocationService(ac AllocationClient, sc cache.SummaryCache, cacheTTL time.Duration, ar activityService.Recorder) AllocationService {
	return &allocationServiceImpl{
		client:   ac,
		cache:    sc,
		cacheTTL: cacheTTL,
		activity: ar,
	}
}

// Free stock is one institution's inventory, so the summary is cached per institution.
func summaryKey(institutionID, requestID string) string {
	return "allocation-summary:" + institutionID + ":" + requestID
}

func (s *allocationServiceImpl) GetSources(ctx context.Context, requestID string) (*domain.PickupSources, error) {
	return s.client.GetSources(ctx, requestID)
}

func (s *allocationServiceImpl) PlanPickup(ctx context.Context, requestID string) (*domain.PickupPlan, error) {
	ref, err := s.client.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	sources, err := s.client.GetSources(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return AutoFill(ref.Quantity, sources.Allocations, sources.FreeStock), nil
}

// CreatePickup rebuilds the plan from fresh sources, applies the operator's
// quantities (if any) through the override rules and posts it when the gate opens.
func (s *allocationServiceImpl) CreatePickup(ctx context.Context, sess *session.Session, requestID string, req domain.CreatePickupRequest) (*domain.Pickup, *apiclient.MutationResult, error) {
	req.PickupDate = strings.TrimSpace(req.PickupDate)
	req.PickupTime = strings.TrimSpace(req.PickupTime)
	if req.PickupDate == "" || req.PickupTime == "" {
		return nil, nil, ErrScheduleRequired
	}

	plan, err := s.PlanPickup(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}

	if len(req.Allocations) > 0 || len(req.FreeStock) > 0 {
		resetSelections(plan)
		for _, a := range req.Allocations {
			if err := SetAllocationQuantity(plan, a.ID, a.Quantity); err != nil {
				return nil, nil, err
			}
		}
		for _, fs := range req.FreeStock {
			if err := SetFreeStockQuantity(plan, fs.ID, fs.Quantity); err != nil {
				return nil, nil, err
			}
		}
	}

	if !CanSubmit(plan, req.PickupDate, req.PickupTime) {
		return nil, nil, fmt.Errorf("%w: selected %d of %d (strategy %s)", ErrInsufficientSelection, TotalSelected(plan), plan.QuantityNeeded, plan.Strategy)
	}

	body := domain.BackendPickupRequest{
		BloodRequestID: requestID,
		PickupDate:     req.PickupDate,
		PickupTime:     req.PickupTime,
		Notes:          req.Notes,
		TotalQuantity:  TotalSelected(plan),
		Allocations:    []domain.PickupAllocationItem{},
		FreeStock:      []domain.PickupFreeStockItem{},
	}
	for _, a := range plan.Allocations {
		if a.Quantity > 0 {
			body.Allocations = append(body.Allocations, domain.PickupAllocationItem{AllocationID: a.SourceID, Quantity: a.Quantity})
		}
	}
	for _, fs := range plan.FreeStock {
		if fs.Quantity > 0 {
			body.FreeStock = append(body.FreeStock, domain.PickupFreeStockItem{StockID: fs.SourceID, Quantity: fs.Quantity})
		}
	}

	pickup, result, err := s.client.CreatePickup(ctx, body)
	activityService.RecordOutcome(ctx, s.activity, sess, activityDomain.ActionPickupCreated, "blood_request", requestID, result, err)
	if err != nil {
		logger.Error("AllocationService.CreatePickup: backend call failed", err, map[string]interface{}{"blood_request_id": requestID})
		return nil, result, err
	}
	s.cache.Delete(ctx, summaryKey(sess.InstitutionID, requestID))
	logger.Info("Pickup %s created for request %s with %d units", pickup.PickupCode, requestID, body.TotalQuantity)
	return pickup, result, nil
}

func resetSelections(plan *domain.PickupPlan) {
	for i := range plan.Allocations {
		plan.Allocations[i].Quantity = 0
	}
	for i := range plan.FreeStock {
		plan.FreeStock[i].Quantity = 0
	}
}

// GetSummary is read for every row of the request table, so it goes through the cache.
func (s *allocationServiceImpl) GetSummary(ctx context.Context, institutionID, requestID string) (*domain.AllocationSummary, error) {
	key := summaryKey(institutionID, requestID)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached domain.AllocationSummary
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	summary, err := s.client.GetSummary(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(summary); err == nil {
		s.cache.Set(ctx, key, raw, s.cacheTTL)
	}
	return summary, nil
}
