package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bt-group/leave-portal/internal/api/middleware"
	"github.com/bt-group/leave-portal/internal/core/domain"
	"github.com/bt-group/leave-portal/internal/core/service"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Enforces the ambient 401 policy: domain.ErrSessionInvalidated from
//     any handler clears the session through the gateway and redirects to
//     the login entry point. The attempted location is not preserved.
//   - Maps the remaining domain errors to deterministic status codes.
//   - Logs unexpected errors without leaking details to the client.
func NewHTTPErrorHandler(gateway *service.AuthGateway, log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if errors.Is(err, domain.ErrSessionInvalidated) {
			if store := middleware.StoreFrom(c); store != nil {
				gateway.Invalidate(c.Request().Context(), store)
			}
			_ = c.Redirect(http.StatusFound, "/login")
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return http.StatusConflict, "request already submitted"
	case errors.Is(err, domain.ErrBackendUnavailable):
		log.Error().Err(err).Str("path", c.Path()).Msg("upstream unavailable")
		return http.StatusBadGateway, "leave service unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
