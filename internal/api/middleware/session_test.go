package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bt-group/leave-portal/internal/core/ports"
	"github.com/bt-group/leave-portal/internal/core/session"
)

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

func newTestManager() *session.Manager {
	factory := func(string) ports.SessionPersistence { return &memoryPersistence{} }
	return session.NewManager(factory, time.Hour, zerolog.Nop())
}

func TestSession_IssuesCookieForNewVisitor(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Session(newTestManager(), "portal_session", false)
	handler := mw(func(c echo.Context) error {
		if StoreFrom(c) == nil {
			t.Fatalf("handler should see a session store")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "portal_session" || cookies[0].Value == "" {
		t.Fatalf("expected a fresh session cookie, got %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
}

func TestSession_ReusesExistingCookie(t *testing.T) {
	e := echo.New()
	manager := newTestManager()
	mw := Session(manager, "portal_session", false)

	var stores []*session.Store
	handler := mw(func(c echo.Context) error {
		stores = append(stores, StoreFrom(c))
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "portal_session", Value: "sess-fixed"})
		rec := httptest.NewRecorder()
		if err := handler(e.NewContext(req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Fatalf("existing cookie must not be reissued")
		}
	}

	if len(stores) != 2 || stores[0] != stores[1] {
		t.Fatalf("same cookie must map to the same store")
	}
}

func TestSession_BindsStoreToRequestContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Session(newTestManager(), "portal_session", false)
	handler := mw(func(c echo.Context) error {
		store, ok := session.FromContext(c.Request().Context())
		if !ok || store != StoreFrom(c) {
			t.Fatalf("request context should carry the same store as the echo context")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}
