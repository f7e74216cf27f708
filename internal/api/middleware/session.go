package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bt-group/leave-portal/internal/core/session"
)

const storeKey = "session_store"

// Session binds every request to its portal session store. Visitors
// without a session cookie get a fresh id; the store is restored from
// persistence synchronously before any handler runs, so downstream code
// never observes an unresolved session by accident.
//
// The store is placed both in the echo context (for handlers and the
// error handler) and in the request context (so the backend client's
// transport can attach the bearer credential).
func Session(manager *session.Manager, cookieName string, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID := ""
			if cookie, err := c.Cookie(cookieName); err == nil {
				sessionID = cookie.Value
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     cookieName,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			store := manager.Get(c.Request().Context(), sessionID)
			c.Set(storeKey, store)

			req := c.Request()
			c.SetRequest(req.WithContext(session.WithStore(req.Context(), store)))

			return next(c)
		}
	}
}

// StoreFrom returns the session store bound to the request, or nil when
// the session middleware did not run.
func StoreFrom(c echo.Context) *session.Store {
	store, _ := c.Get(storeKey).(*session.Store)
	return store
}
