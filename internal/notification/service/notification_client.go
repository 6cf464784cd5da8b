package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ridloal/blood-portal/internal/notification/domain"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
)

type NotificationClient interface {
	ListRecent(ctx context.Context, institutionID string, limit int) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, institutionID string) (int, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context, institutionID string) error
}

type httpNotificationClient struct {
	api *apiclient.Client
}

func NewHTTPNotificationClient(api *apiclient.Client) NotificationClient {
	return &httpNotificationClient{api: api}
}

func (c *httpNotificationClient) ListRecent(ctx context.Context, institutionID string, limit int) ([]domain.Notification, error) {
	q := url.Values{}
	q.Set("institution_id", institutionID)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("order", "created_at.desc")

	items := []domain.Notification{}
	if err := c.api.GetList(ctx, apiclient.Path("notifications"), q, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *httpNotificationClient) UnreadCount(ctx context.Context, institutionID string) (int, error) {
	q := url.Values{}
	q.Set("institution_id", institutionID)

	var out domain.UnreadCount
	if err := c.api.GetOne(ctx, apiclient.Path("notifications", "unread-count"), q, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *httpNotificationClient) MarkAsRead(ctx context.Context, id string) error {
	_, err := c.api.Mutate(ctx, http.MethodPut, apiclient.Path("notifications", id, "read"), struct{}{}, nil)
	return err
}

func (c *httpNotificationClient) MarkAllAsRead(ctx context.Context, institutionID string) error {
	body := map[string]string{"institution_id": institutionID}
	_, err := c.api.Mutate(ctx, http.MethodPut, apiclient.Path("notifications", "read-all"), body, nil)
	return err
}
