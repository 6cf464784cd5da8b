package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ridloal/blood-portal/internal/bloodrequest/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/session"
)

type BloodRequestClient interface {
	List(ctx context.Context, sess *session.Session) ([]domain.BloodRequest, error)
	Get(ctx context.Context, id string) (*domain.BloodRequest, error)
	Create(ctx context.Context, req domain.CreateBloodRequest) (*domain.BloodRequest, *apiclient.MutationResult, error)
	Approve(ctx context.Context, id string) (*apiclient.MutationResult, error)
	Reject(ctx context.Context, id, reason string) (*apiclient.MutationResult, error)
	Cancel(ctx context.Context, id, reason string) (*apiclient.MutationResult, error)
}

type httpBloodRequestClient struct {
	api *apiclient.Client
}

func NewHTTPBloodRequestClient(api *apiclient.Client) BloodRequestClient {
	return &httpBloodRequestClient{api: api}
}

// List asks for the rows addressed to or created by the caller's institution.
func (c *httpBloodRequestClient) List(ctx context.Context, sess *session.Session) ([]domain.BloodRequest, error) {
	q := url.Values{}
	if sess.InstitutionType == session.TypePMI {
		q.Set("pmi_id", sess.InstitutionID)
	} else {
		q.Set("hospital_id", sess.InstitutionID)
	}
	q.Set("order", "created_at.desc")

	rows := []domain.BloodRequest{}
	if err := c.api.GetList(ctx, "/blood-requests", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *httpBloodRequestClient) Get(ctx context.Context, id string) (*domain.BloodRequest, error) {
	var r domain.BloodRequest
	if err := c.api.GetOne(ctx, apiclient.Path("blood-requests", id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *httpBloodRequestClient) Create(ctx context.Context, req domain.CreateBloodRequest) (*domain.BloodRequest, *apiclient.MutationResult, error) {
	var created domain.BloodRequest
	result, err := c.api.Mutate(ctx, http.MethodPost, "/blood-requests", req, &created)
	if err != nil {
		return nil, result, err
	}
	return &created, result, nil
}

func (c *httpBloodRequestClient) Approve(ctx context.Context, id string) (*apiclient.MutationResult, error) {
	return c.api.Mutate(ctx, http.MethodPut, apiclient.Path("blood-requests", id, "approve"), struct{}{}, nil)
}

func (c *httpBloodRequestClient) Reject(ctx context.Context, id, reason string) (*apiclient.MutationResult, error) {
	return c.api.Mutate(ctx, http.MethodPut, apiclient.Path("blood-requests", id, "reject"), domain.ReasonRequest{Reason: reason}, nil)
}

func (c *httpBloodRequestClient) Cancel(ctx context.Context, id, reason string) (*apiclient.MutationResult, error) {
	return c.api.Mutate(ctx, http.MethodPut, apiclient.Path("blood-requests", id, "cancel"), domain.ReasonRequest{Reason: reason}, nil)
}
