package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bt-group/leave-portal/internal/core/domain"
	"github.com/bt-group/leave-portal/internal/core/ports"
	"github.com/bt-group/leave-portal/internal/core/service"
	"github.com/bt-group/leave-portal/internal/core/session"
)

type noopBackend struct{}

func (noopBackend) Login(context.Context, string, string) (string, error) { return "", nil }
func (noopBackend) AllRequests(context.Context) ([]domain.LeaveRequest, error) {
	return nil, nil
}
func (noopBackend) PendingRequests(context.Context) ([]domain.LeaveRequest, error) {
	return nil, nil
}
func (noopBackend) RequestsForUser(context.Context, int) ([]domain.LeaveRequest, error) {
	return nil, nil
}
func (noopBackend) CreateRequest(context.Context, ports.CreateLeaveRequestInput) (*domain.LeaveRequest, error) {
	return nil, nil
}
func (noopBackend) ApproveRequest(context.Context, int) error { return nil }
func (noopBackend) RejectRequest(context.Context, int) error  { return nil }
func (noopBackend) CancelRequest(context.Context, int) error  { return nil }
func (noopBackend) Users(context.Context) ([]domain.User, error) {
	return nil, nil
}
func (noopBackend) LeaveBalance(context.Context, int) (*domain.LeaveBalance, error) {
	return nil, nil
}

type memoryPersistence struct {
	token, user string
}

func (p *memoryPersistence) Save(_ context.Context, token, user string) error {
	p.token, p.user = token, user
	return nil
}
func (p *memoryPersistence) Load(context.Context) (string, string, error) {
	return p.token, p.user, nil
}
func (p *memoryPersistence) Delete(context.Context) error {
	p.token, p.user = "", ""
	return nil
}

func authenticatedStore() *session.Store {
	store := session.NewStore("sess-e", &memoryPersistence{}, zerolog.Nop())
	store.Restore(context.Background())
	store.Set(context.Background(), "tok", domain.Identity{Email: "e@bt.com", RoleID: domain.RoleEmployee, UserID: 3})
	return store
}

func errorContext(store *session.Store) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if store != nil {
		c.Set("session_store", store)
	}
	return c, rec
}

func TestErrorHandler_SessionInvalidatedForcesLogout(t *testing.T) {
	gateway := service.NewAuthGateway(noopBackend{}, nil, zerolog.Nop())
	handler := NewHTTPErrorHandler(gateway, zerolog.Nop())

	notified := false
	gateway.OnInvalidated(func(*session.Store) { notified = true })

	store := authenticatedStore()
	c, rec := errorContext(store)

	handler(domain.ErrSessionInvalidated, c)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	// The attempted location must not be preserved on forced logout.
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected plain /login redirect, got %q", loc)
	}
	if store.Snapshot().Authenticated() {
		t.Fatalf("invalidated session must be cleared")
	}
	if !notified {
		t.Fatalf("invalidation subscribers must fire")
	}
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	gateway := service.NewAuthGateway(noopBackend{}, nil, zerolog.Nop())
	handler := NewHTTPErrorHandler(gateway, zerolog.Nop())

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"authentication failed", domain.ErrAuthenticationFailed, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"duplicate submission", domain.ErrDuplicateSubmission, http.StatusConflict},
		{"backend unavailable", domain.ErrBackendUnavailable, http.StatusBadGateway},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
		{"echo http error", echo.NewHTTPError(http.StatusNotFound, "not found"), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := errorContext(authenticatedStore())
			handler(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if resp.Error == "" {
				t.Fatalf("expected an error message in the body")
			}
		})
	}
}

func TestErrorHandler_WrappedInvalidationDetected(t *testing.T) {
	gateway := service.NewAuthGateway(noopBackend{}, nil, zerolog.Nop())
	handler := NewHTTPErrorHandler(gateway, zerolog.Nop())

	store := authenticatedStore()
	c, rec := errorContext(store)

	handler(errors.Join(errors.New("fetching dashboard"), domain.ErrSessionInvalidated), c)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("wrapped invalidation must still force logout, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if store.Snapshot().Authenticated() {
		t.Fatalf("session not cleared")
	}
}
