package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ridloal/blood-portal/internal/fulfillment/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
)

// FulfillmentClient is the slice of the backend API the fulfillment screens use.
type FulfillmentClient interface {
	GetFulfillment(ctx context.Context, id string) (*domain.FulfillmentRequest, error)
	ListConfirmations(ctx context.Context, id string) ([]domain.DonorConfirmation, error)
	Initiate(ctx context.Context, id string) (*apiclient.MutationResult, error)
	Cancel(ctx context.Context, id, reason string) (*apiclient.MutationResult, error)
	GetStats(ctx context.Context, pmiID string) (*domain.FulfillmentStats, error)
}

type httpFulfillmentClient struct {
	api *apiclient.Client
}

func NewHTTPFulfillmentClient(api *apiclient.Client) FulfillmentClient {
	return &httpFulfillmentClient{api: api}
}

func (c *httpFulfillmentClient) GetFulfillment(ctx context.Context, id string) (*domain.FulfillmentRequest, error) {
	var f domain.FulfillmentRequest
	if err := c.api.GetOne(ctx, apiclient.Path("fulfillments", id), nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *httpFulfillmentClient) ListConfirmations(ctx context.Context, id string) ([]domain.DonorConfirmation, error) {
	confirmations := []domain.DonorConfirmation{}
	if err := c.api.GetList(ctx, apiclient.Path("fulfillments", id, "confirmations"), nil, &confirmations); err != nil {
		return nil, err
	}
	return confirmations, nil
}

func (c *httpFulfillmentClient) Initiate(ctx context.Context, id string) (*apiclient.MutationResult, error) {
	return c.api.Mutate(ctx, http.MethodPost, apiclient.Path("fulfillments", id, "initiate"), struct{}{}, nil)
}

func (c *httpFulfillmentClient) Cancel(ctx context.Context, id, reason string) (*apiclient.MutationResult, error) {
	body := domain.CancelRequest{Reason: reason}
	return c.api.Mutate(ctx, http.MethodPost, apiclient.Path("fulfillments", id, "cancel"), body, nil)
}

func (c *httpFulfillmentClient) GetStats(ctx context.Context, pmiID string) (*domain.FulfillmentStats, error) {
	var stats domain.FulfillmentStats
	q := url.Values{}
	q.Set("pmi_id", pmiID)
	if err := c.api.GetOne(ctx, apiclient.Path("fulfillments", "stats"), q, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
