package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/ridloal/blood-portal/internal/allocation/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
)

type AllocationClient interface {
	GetRequest(ctx context.Context, requestID string) (*domain.RequestRef, error)
	GetSources(ctx context.Context, requestID string) (*domain.PickupSources, error)
	GetSummary(ctx context.Context, requestID string) (*domain.AllocationSummary, error)
	CreatePickup(ctx context.Context, req domain.BackendPickupRequest) (*domain.Pickup, *apiclient.MutationResult, error)
}

type httpAllocationClient struct {
	api *apiclient.Client
}

func NewHTTPAllocationClient(api *apiclient.Client) AllocationClient {
	return &httpAllocationClient{api: api}
}

func (c *httpAllocationClient) GetRequest(ctx context.Context, requestID string) (*domain.RequestRef, error) {
	var ref domain.RequestRef
	if err := c.api.GetOne(ctx, apiclient.Path("blood-requests", requestID), nil, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

func (c *httpAllocationClient) GetSources(ctx context.Context, requestID string) (*domain.PickupSources, error) {
	var sources domain.PickupSources
	err := c.api.GetOne(ctx, apiclient.Path("blood-requests", requestID, "pickup-sources"), nil, &sources)
	if err != nil && !errors.Is(err, apiclient.ErrNotFound) {
		return nil, err
	}
	if sources.Allocations == nil {
		sources.Allocations = []domain.AllocationData{}
	}
	if sources.FreeStock == nil {
		sources.FreeStock = []domain.FreeStockData{}
	}
	return &sources, nil
}

func (c *httpAllocationClient) GetSummary(ctx context.Context, requestID string) (*domain.AllocationSummary, error) {
	var summary domain.AllocationSummary
	if err := c.api.GetOne(ctx, apiclient.Path("blood-requests", requestID, "allocation-summary"), nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *httpAllocationClient) CreatePickup(ctx context.Context, req domain.BackendPickupRequest) (*domain.Pickup, *apiclient.MutationResult, error) {
	var pickup domain.Pickup
	result, err := c.api.Mutate(ctx, http.MethodPost, apiclient.Path("pickups"), req, &pickup)
	if err != nil {
		return nil, result, err
	}
	return &pickup, result, nil
}
