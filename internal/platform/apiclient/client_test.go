package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type item struct {
	ID  string `json:"id"`
	Qty int    `json:"qty"`
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second)
}

func TestClient_GetList(t *testing.T) {
	t.Run("Decodes data array and forwards token", func(t *testing.T) {
		var gotAuth, gotReqID string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotReqID = r.Header.Get("X-Request-ID")
			w.Write([]byte(`{"data":[{"id":"a","qty":2},{"id":"b","qty":3}]}`))
		})

		var out []item
		err := c.GetList(WithToken(context.Background(), "tok"), "/stock", nil, &out)
		assert.NoError(t, err)
		assert.Len(t, out, 2)
		assert.Equal(t, "Bearer tok", gotAuth)
		assert.NotEmpty(t, gotReqID)
	})

	t.Run("404 is an empty list, not an error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		var out []item
		err := c.GetList(context.Background(), "/stock", nil, &out)
		assert.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("4xx surfaces backend message", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"message":"Invalid blood type"}`))
		})
		var out []item
		err := c.GetList(context.Background(), "/stock", nil, &out)
		var apiErr *APIError
		assert.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "Invalid blood type", apiErr.Message)
	})

	t.Run("5xx is unexpected", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		var out []item
		err := c.GetList(context.Background(), "/stock", nil, &out)
		assert.ErrorIs(t, err, ErrUnexpected)
	})
}

func TestClient_Transport(t *testing.T) {
	c := New("http://127.0.0.1:1", 500*time.Millisecond)
	var out []item
	err := c.GetList(context.Background(), "/stock", nil, &out)
	assert.ErrorIs(t, err, ErrTransport)

	status, _ := StatusFor(err)
	assert.Equal(t, http.StatusBadGateway, status)
}

func TestClient_GetPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{"data":[{"id":"a","qty":1}],"pagination":{"currentPage":2,"totalPages":3,"totalItems":21,"itemsPerPage":10,"hasNextPage":true,"hasPrevPage":true}}`))
	})

	var out []item
	p, err := c.GetPage(context.Background(), "/blood-requests", map[string][]string{"page": {"2"}}, &out)
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 21, p.TotalItems)
	assert.True(t, p.HasNextPage)
}

func TestClient_GetOne(t *testing.T) {
	t.Run("404 is ErrNotFound", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		var out item
		err := c.GetOne(context.Background(), Path("fulfillments", "x"), nil, &out)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestClient_Mutate(t *testing.T) {
	t.Run("Success decodes data and message", func(t *testing.T) {
		var body map[string]string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			json.NewDecoder(r.Body).Decode(&body)
			w.Write([]byte(`{"success":true,"message":"Fulfillment cancelled","data":{"id":"f1","qty":0}}`))
		})

		var out item
		res, err := c.Mutate(context.Background(), http.MethodPost, Path("fulfillments", "f1", "cancel"), map[string]string{"reason": "duplicate"}, &out)
		assert.NoError(t, err)
		assert.Equal(t, "Fulfillment cancelled", res.Message)
		assert.Equal(t, "f1", out.ID)
		assert.Equal(t, "duplicate", body["reason"])
	})

	t.Run("success=false keeps the message", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false,"message":"Stock is no longer available"}`))
		})
		res, err := c.Mutate(context.Background(), http.MethodPost, "/pickups", map[string]int{"q": 1}, nil)
		assert.Error(t, err)
		assert.NotNil(t, res)
		status, msg := StatusFor(err)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, "Stock is no longer available", msg)
	})

	t.Run("Empty body is success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		res, err := c.Mutate(context.Background(), http.MethodPut, "/notifications/read-all", nil, nil)
		assert.NoError(t, err)
		assert.True(t, res.Success)
	})
}

func TestPath(t *testing.T) {
	assert.Equal(t, "/fulfillments/a%2Fb/cancel", Path("fulfillments", "a/b", "cancel"))
}
