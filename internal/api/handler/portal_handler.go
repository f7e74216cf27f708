package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bt-group/leave-portal/internal/api/middleware"
	"github.com/bt-group/leave-portal/internal/core/domain"
	"github.com/bt-group/leave-portal/internal/core/guard"
	"github.com/bt-group/leave-portal/internal/core/policy"
	"github.com/bt-group/leave-portal/internal/core/ports"
)

// PortalHandler serves the navigation menu, the dashboard, and the
// settings stub.
type PortalHandler struct {
	backend ports.LeaveBackend
}

func NewPortalHandler(backend ports.LeaveBackend) *PortalHandler {
	return &PortalHandler{backend: backend}
}

// Navigation returns the menu entries visible to the current identity, in
// declaration order. Anonymous visitors see no role-gated entries.
//
// @Summary      Visible navigation entries
// @Tags         portal
// @Produce      json
// @Success      200  {object}  navigationResponse
// @Router       /navigation [get]
func (h *PortalHandler) Navigation(c echo.Context) error {
	var identity *domain.Identity
	if store := middleware.StoreFrom(c); store != nil {
		identity = store.Snapshot().Identity
	}

	visible := policy.VisibleNavigation(identity, guard.NavigationEntries())
	entries := make([]navigationEntryResponse, 0, len(visible))
	for _, e := range visible {
		entries = append(entries, navigationEntryResponse{Name: e.Name, Path: e.Path})
	}
	return c.JSON(http.StatusOK, navigationResponse{Entries: entries})
}

// Dashboard aggregates the landing-page figures: the identity's leave
// balance, the pending count relevant to their role, and their recent
// requests.
//
// @Summary      Dashboard summary
// @Tags         portal
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /dashboard [get]
func (h *PortalHandler) Dashboard(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	balance, err := h.backend.LeaveBalance(ctx, identity.UserID)
	if err != nil {
		return err
	}

	// Managers and administrators see their team's pending queue; an
	// employee sees their own.
	var pending []domain.LeaveRequest
	if identity.RoleID == domain.RoleEmployee {
		own, err := h.backend.RequestsForUser(ctx, identity.UserID)
		if err != nil {
			return err
		}
		for _, r := range own {
			if r.Status == domain.LeavePending {
				pending = append(pending, r)
			}
		}
	} else {
		if pending, err = h.backend.PendingRequests(ctx); err != nil {
			return err
		}
	}

	recent, err := h.backend.RequestsForUser(ctx, identity.UserID)
	if err != nil {
		return err
	}
	if len(recent) > 5 {
		recent = recent[:5]
	}

	return c.JSON(http.StatusOK, dashboardResponse{
		Balance:      balance,
		PendingCount: len(pending),
		Recent:       recent,
	})
}

// Settings serves the administration settings page. The page is a
// placeholder in the current product; it still sits behind the
// administrator-only route gate.
//
// @Summary      Settings (administrators only)
// @Tags         portal
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /settings [get]
func (h *PortalHandler) Settings(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "not yet configurable"})
}
