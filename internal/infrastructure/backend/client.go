// Package backend is the portal's HTTP client for the upstream
// leave-management REST API. Every outgoing request carries the session's
// bearer credential, and a 401 from any protected endpoint surfaces as
// domain.ErrSessionInvalidated so the global logout policy can run.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bt-group/leave-portal/internal/core/domain"
	"github.com/bt-group/leave-portal/internal/core/ports"
	"github.com/bt-group/leave-portal/internal/core/session"
)

const defaultTimeout = 10 * time.Second

// RequestObserver receives the outcome of every upstream call: the path
// with numeric segments collapsed to ":id", and the HTTP status code.
type RequestObserver func(path, status string)

// Client implements ports.LeaveBackend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
	observe RequestObserver
}

var _ ports.LeaveBackend = (*Client)(nil)

// NewClient returns a Client for the API rooted at baseURL (e.g.
// "http://backend:3000/api"). A default timeout is applied when none is
// provided.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: &bearerTransport{base: http.DefaultTransport},
		},
		log: log,
	}
}

// OnRequest registers fn to be called after every upstream request. The
// composition root hooks the upstream metrics here, keeping this package
// free of the serving layer.
func (c *Client) OnRequest(fn RequestObserver) {
	c.observe = fn
}

func (c *Client) observed(path string, status int) {
	if c.observe != nil {
		c.observe(metricPath(path), strconv.Itoa(status))
	}
}

// bearerTransport attaches the session's bearer credential to every
// outgoing request. The session travels in the request context, so no
// caller has to opt in per call.
type bearerTransport struct {
	base http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token := session.TokenFromContext(req.Context()); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return t.base.RoundTrip(req)
}

// Login exchanges credentials for a bearer token. This endpoint sits
// outside the 401 invalidation policy: a 401 here is a credential
// rejection, not a dead session.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()
	c.observed("/login", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("login rejected: status %d", resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("login response: %w", err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("login response: empty token")
	}
	return out.Token, nil
}

func (c *Client) AllRequests(ctx context.Context) ([]domain.LeaveRequest, error) {
	return get[[]domain.LeaveRequest](c, ctx, "/leave-requests")
}

func (c *Client) PendingRequests(ctx context.Context) ([]domain.LeaveRequest, error) {
	return get[[]domain.LeaveRequest](c, ctx, "/leave-requests/pending")
}

func (c *Client) RequestsForUser(ctx context.Context, userID int) ([]domain.LeaveRequest, error) {
	return get[[]domain.LeaveRequest](c, ctx, fmt.Sprintf("/leave-requests/status/%d", userID))
}

func (c *Client) CreateRequest(ctx context.Context, in ports.CreateLeaveRequestInput) (*domain.LeaveRequest, error) {
	payload := map[string]any{
		"leaveTypeId": in.LeaveTypeID,
		"startDate":   in.StartDate,
		"endDate":     in.EndDate,
		"reason":      in.Reason,
	}
	created, err := do[domain.LeaveRequest](c, ctx, http.MethodPost, "/leave-requests", payload)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) ApproveRequest(ctx context.Context, requestID int) error {
	_, err := do[json.RawMessage](c, ctx, http.MethodPut, fmt.Sprintf("/leave-requests/%d/approve", requestID), nil)
	return err
}

func (c *Client) RejectRequest(ctx context.Context, requestID int) error {
	_, err := do[json.RawMessage](c, ctx, http.MethodPut, fmt.Sprintf("/leave-requests/%d/reject", requestID), nil)
	return err
}

func (c *Client) CancelRequest(ctx context.Context, requestID int) error {
	_, err := do[json.RawMessage](c, ctx, http.MethodPut, fmt.Sprintf("/leave-requests/%d/cancel", requestID), nil)
	return err
}

func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	return get[[]domain.User](c, ctx, "/users")
}

func (c *Client) LeaveBalance(ctx context.Context, userID int) (*domain.LeaveBalance, error) {
	balance, err := get[domain.LeaveBalance](c, ctx, fmt.Sprintf("/users/%d/leave-balance", userID))
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func get[T any](c *Client, ctx context.Context, path string) (T, error) {
	return do[T](c, ctx, http.MethodGet, path, nil)
}

// do performs a protected API call and unwraps the {"data": ...} envelope.
func do[T any](c *Client, ctx context.Context, method, path string, payload any) (T, error) {
	var zero T

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return zero, err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return zero, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	c.observed(path, resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return zero, domain.ErrSessionInvalidated
	case resp.StatusCode == http.StatusForbidden:
		return zero, domain.ErrForbidden
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.log.Warn().Str("path", path).Int("status", resp.StatusCode).Msg("upstream call failed")
		return zero, fmt.Errorf("%w: %s %s: status %d", domain.ErrBackendUnavailable, method, path, resp.StatusCode)
	}

	var envelope struct {
		Data T `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return zero, fmt.Errorf("%w: decode %s: %v", domain.ErrBackendUnavailable, path, err)
	}
	return envelope.Data, nil
}

// metricPath collapses numeric path segments so metric label cardinality
// stays bounded.
func metricPath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if _, err := strconv.Atoi(p); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
