package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/bt-group/leave-portal/internal/api/metrics"
	"github.com/bt-group/leave-portal/internal/core/guard"
)

// Guard gates a protected route using the static route table entry. The
// decision is recomputed from the session snapshot on every request.
func Guard(route guard.Route) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store := StoreFrom(c)
			if store == nil {
				return c.Redirect(http.StatusFound, loginTarget(c))
			}

			decision := guard.Evaluate(store.Snapshot(), route.Roles)
			metrics.GuardDecisionsTotal.WithLabelValues(route.Path, decision.String()).Inc()

			switch decision {
			case guard.DecisionResolving:
				// Neutral holding response: no content, no redirect.
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "resolving"})
			case guard.DecisionLogin:
				return c.Redirect(http.StatusFound, loginTarget(c))
			case guard.DecisionForbidden:
				return c.JSON(http.StatusForbidden, map[string]string{
					"error":   "access denied",
					"message": "You don't have permission to access this page.",
				})
			default:
				return next(c)
			}
		}
	}
}

// loginTarget builds the login redirect preserving the originally
// requested location so a successful login can return the visitor there.
func loginTarget(c echo.Context) string {
	return "/login?redirect=" + url.QueryEscape(c.Request().URL.RequestURI())
}
