package service

import (
	"context"
	"net/http"

	"github.com/ridloal/blood-portal/internal/donor/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
)

type DonorClient interface {
	ListRanked(ctx context.Context, fulfillmentID string) ([]domain.RankedDonor, error)
	Notify(ctx context.Context, fulfillmentID string, donorIDs []string) (*domain.NotifyResult, *apiclient.MutationResult, error)
}

type httpDonorClient struct {
	api *apiclient.Client
}

func NewHTTPDonorClient(api *apiclient.Client) DonorClient {
	return &httpDonorClient{api: api}
}

func (c *httpDonorClient) ListRanked(ctx context.Context, fulfillmentID string) ([]domain.RankedDonor, error) {
	donors := []domain.RankedDonor{}
	if err := c.api.GetList(ctx, apiclient.Path("fulfillments", fulfillmentID, "donors"), nil, &donors); err != nil {
		return nil, err
	}
	return donors, nil
}

func (c *httpDonorClient) Notify(ctx context.Context, fulfillmentID string, donorIDs []string) (*domain.NotifyResult, *apiclient.MutationResult, error) {
	var out domain.NotifyResult
	body := domain.NotifyRequest{DonorIDs: donorIDs}
	result, err := c.api.Mutate(ctx, http.MethodPost, apiclient.Path("fulfillments", fulfillmentID, "notify"), body, &out)
	if err != nil {
		return nil, result, err
	}
	return &out, result, nil
}
