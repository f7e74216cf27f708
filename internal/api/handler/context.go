package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bt-group/leave-portal/internal/api/middleware"
	"github.com/bt-group/leave-portal/internal/core/domain"
)

// ctxIdentity returns the authenticated identity for the request. Handlers
// behind the route guard always have one; a missing identity means the
// guard did not run, which is rejected outright.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	store := middleware.StoreFrom(c)
	if store == nil {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	snap := store.Snapshot()
	if snap.Identity == nil {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return *snap.Identity, nil
}
