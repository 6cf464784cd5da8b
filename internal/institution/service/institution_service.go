package service

import (
	"context"

	"github.com/ridloal/blood-portal/internal/institution/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
)

type InstitutionClient interface {
	GetProfile(ctx context.Context, id string) (*domain.Institution, error)
	ListPartners(ctx context.Context, id string) ([]domain.Partner, error)
}

type httpInstitutionClient struct {
	api *apiclient.Client
}

func NewHTTPInstitutionClient(api *apiclient.Client) InstitutionClient {
	return &httpInstitutionClient{api: api}
}

func (c *httpInstitutionClient) GetProfile(ctx context.Context, id string) (*domain.Institution, error) {
	var inst domain.Institution
	if err := c.api.GetOne(ctx, apiclient.Path("institutions", id), nil, &inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

func (c *httpInstitutionClient) ListPartners(ctx context.Context, id string) ([]domain.Partner, error) {
	partners := []domain.Partner{}
	if err := c.api.GetList(ctx, apiclient.Path("institutions", id, "partners"), nil, &partners); err != nil {
		return nil, err
	}
	return partners, nil
}

type InstitutionService interface {
	GetProfile(ctx context.Context, id string) (*domain.Institution, error)
	ListPartners(ctx context.Context, id string, activeOnly bool) ([]domain.Partner, error)
}

type institutionServiceImpl struct {
	client InstitutionClient
}

func NewInstitutionService(ic InstitutionClient) InstitutionService {
	return &institutionServiceImpl{client: ic}
}

func (s *institutionServiceImpl) GetProfile(ctx context.Context, id string) (*domain.Institution, error) {
	return s.client.GetProfile(ctx, id)
}

func (s *institutionServiceImpl) ListPartners(ctx context.Context, id string, activeOnly bool) ([]domain.Partner, error) {
	partners, err := s.client.ListPartners(ctx, id)
	if err != nil {
		return nil, err
	}
	if !activeOnly {
		return partners, nil
	}
	active := make([]domain.Partner, 0, len(partners))
	for _, p := range partners {
		if p.Status == "active" {
			active = append(active, p)
		}
	}
	return active, nil
}
