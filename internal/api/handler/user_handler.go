package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bt-group/leave-portal/internal/core/ports"
)

// UserHandler serves the user-management page data.
type UserHandler struct {
	backend ports.LeaveBackend
}

func NewUserHandler(backend ports.LeaveBackend) *UserHandler {
	return &UserHandler{backend: backend}
}

// List returns the employee directory.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  userListResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.backend.Users(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Data: users})
}
