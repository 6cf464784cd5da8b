// Package apiclient is the thin authenticated HTTP wrapper used by every
// portal service to reach the blood-donation backend API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ridloal/blood-portal/internal/platform/logger"
)

var (
	ErrTransport  = errors.New("backend unreachable")
	ErrNotFound   = errors.New("resource not found")
	ErrUnexpected = errors.New("unexpected backend response")
)

// APIError is a 4xx answer from the backend; Message is shown to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// Pagination mirrors the backend pagination block.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

// MutationResult is the {success, message} part of a mutation envelope.
type MutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type listEnvelope struct {
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination,omitempty"`
	Message    string          `json:"message,omitempty"`
}

type mutationEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type tokenKey struct{}

// WithToken attaches the caller's bearer token so it is forwarded to the backend.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the token stored by WithToken, or "".
func TokenFrom(ctx context.Context) string {
	if v, ok := ctx.Value(tokenKey{}).(string); ok {
		return v
	}
	return ""
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Path joins escaped segments: Path("fulfillments", id, "cancel").
func Path(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(escaped, "/")
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (int, []byte, error) {
	reqURL := c.BaseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Error(fmt.Sprintf("APIClient: %s %s failed", method, path), err, nil)
		return 0, nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return resp.StatusCode, raw, nil
}

// classify turns a non-2xx status into the error taxonomy.
func classify(status int, raw []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	if status == http.StatusNotFound {
		return ErrNotFound
	}
	var env mutationEnvelope
	_ = json.Unmarshal(raw, &env)
	if status >= 400 && status < 500 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &APIError{StatusCode: status, Message: msg}
	}
	return fmt.Errorf("%w: status %d", ErrUnexpected, status)
}

// GetList decodes {data: T[]} into out. A 404 leaves out empty and returns nil.
func (c *Client) GetList(ctx context.Context, path string, query url.Values, out interface{}) error {
	status, raw, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return nil
	}
	if err := classify(status, raw); err != nil {
		return err
	}
	var env listEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
	return nil
}

// GetPage decodes {data: T[], pagination: {...}}.
func (c *Client) GetPage(ctx context.Context, path string, query url.Values, out interface{}) (*Pagination, error) {
	status, raw, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return &Pagination{CurrentPage: 1}, nil
	}
	if err := classify(status, raw); err != nil {
		return nil, err
	}
	var env listEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpected, err)
		}
	}
	if env.Pagination == nil {
		return &Pagination{CurrentPage: 1, TotalPages: 1}, nil
	}
	return env.Pagination, nil
}

// GetOne decodes {data: T}. 404 is ErrNotFound.
func (c *Client) GetOne(ctx context.Context, path string, query url.Values, out interface{}) error {
	status, raw, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := classify(status, raw); err != nil {
		return err
	}
	var env listEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return ErrNotFound
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
	return nil
}

// Mutate sends body and decodes {success, message, data?}. out may be nil.
// success=false on a 2xx status is reported as an *APIError with the backend message.
func (c *Client) Mutate(ctx context.Context, method, path string, body, out interface{}) (*MutationResult, error) {
	status, raw, err := c.do(ctx, method, path, nil, body)
	if err != nil {
		return nil, err
	}
	if err := classify(status, raw); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return &MutationResult{Success: true}, nil
	}
	var env mutationEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
	result := &MutationResult{Success: env.Success, Message: env.Message}
	if !env.Success {
		return result, &APIError{StatusCode: http.StatusUnprocessableEntity, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return result, fmt.Errorf("%w: %v", ErrUnexpected, err)
		}
	}
	return result, nil
}
