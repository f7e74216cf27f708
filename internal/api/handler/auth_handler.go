package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bt-group/leave-portal/internal/api/metrics"
	"github.com/bt-group/leave-portal/internal/api/middleware"
	"github.com/bt-group/leave-portal/internal/core/service"
)

// AuthHandler owns the portal's login and logout endpoints.
type AuthHandler struct {
	gateway *service.AuthGateway
}

func NewAuthHandler(gateway *service.AuthGateway) *AuthHandler {
	return &AuthHandler{gateway: gateway}
}

// Login authenticates against the upstream leave API and installs the
// session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        redirect  query     string        false  "Originally requested location to return to"
// @Param        body      body      loginRequest  true   "Credentials"
// @Success      200       {object}  loginResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	store := middleware.StoreFrom(c)
	if store == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "no session")
	}

	identity, err := h.gateway.Login(c.Request().Context(), store, req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Identity: toIdentityResponse(identity),
		Redirect: safeRedirect(c.QueryParam("redirect")),
	})
}

// Logout clears the session and sends the visitor back to the login
// entry point.
//
// @Summary      Logout
// @Tags         auth
// @Success      302
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if store := middleware.StoreFrom(c); store != nil {
		h.gateway.Logout(c.Request().Context(), store)
	}
	return c.Redirect(http.StatusFound, "/login")
}

// safeRedirect keeps post-login redirects inside the portal: only local
// absolute paths are honoured, anything else falls back to the dashboard.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/dashboard"
	}
	return target
}
