package service

import (
	"context"
	"net/url"
	"time"

	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/stock/domain"
)

type StockClient interface {
	List(ctx context.Context, institutionID string) ([]domain.BloodStock, error)
}

type httpStockClient struct {
	api *apiclient.Client
}

func NewHTTPStockClient(api *apiclient.Client) StockClient {
	return &httpStockClient{api: api}
}

func (c *httpStockClient) List(ctx context.Context, institutionID string) ([]domain.BloodStock, error) {
	q := url.Values{}
	q.Set("institution_id", institutionID)
	q.Set("order", "expiry_date.asc")
	stock := []domain.BloodStock{}
	if err := c.api.GetList(ctx, "/blood-stock", q, &stock); err != nil {
		return nil, err
	}
	return stock, nil
}

type StockService interface {
	List(ctx context.Context, institutionID string) ([]domain.BloodStock, error)
	Summary(ctx context.Context, institutionID string, now time.Time) (*domain.Summary, error)
}

type stockServiceImpl struct {
	client StockClient
}

func NewStockService(sc StockClient) StockService {
	return &stockServiceImpl{client: sc}
}

func (s *stockServiceImpl) List(ctx context.Context, institutionID string) ([]domain.BloodStock, error) {
	return s.client.List(ctx, institutionID)
}

func (s *stockServiceImpl) Summary(ctx context.Context, institutionID string, now time.Time) (*domain.Summary, error) {
	stock, err := s.client.List(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	summary := Summarize(stock, now)
	return &summary, nil
}
