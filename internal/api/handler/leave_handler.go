package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bt-group/leave-portal/internal/core/domain"
	"github.com/bt-group/leave-portal/internal/core/ports"
)

// SubmitGuard catches repeated create-request submissions (double form
// posts) before they reach the backend.
type SubmitGuard interface {
	IsDuplicate(ctx context.Context, userID, leaveTypeID int, start, end string) (bool, error)
	Mark(ctx context.Context, userID, leaveTypeID int, start, end string) error
}

// LeaveHandler proxies the leave-request views and actions to the
// upstream API. Role gating happens in the route guard; handlers only
// decide whose data to fetch.
type LeaveHandler struct {
	backend ports.LeaveBackend
	guard   SubmitGuard
	log     zerolog.Logger
}

func NewLeaveHandler(backend ports.LeaveBackend, guard SubmitGuard, log zerolog.Logger) *LeaveHandler {
	return &LeaveHandler{backend: backend, guard: guard, log: log}
}

// MyRequests lists the caller's own leave requests.
//
// @Summary      My leave requests
// @Tags         leave-requests
// @Produce      json
// @Success      200  {object}  leaveRequestListResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /leave-requests [get]
func (h *LeaveHandler) MyRequests(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	requests, err := h.backend.RequestsForUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, leaveRequestListResponse{Data: requests})
}

// TeamRequests lists the pending queue for managers and administrators.
//
// @Summary      Pending team requests
// @Tags         leave-requests
// @Produce      json
// @Success      200  {object}  leaveRequestListResponse
// @Router       /team-requests [get]
func (h *LeaveHandler) TeamRequests(c echo.Context) error {
	requests, err := h.backend.PendingRequests(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, leaveRequestListResponse{Data: requests})
}

// AllRequests lists every request in the system (administrators only).
//
// @Summary      All leave requests
// @Tags         leave-requests
// @Produce      json
// @Success      200  {object}  leaveRequestListResponse
// @Router       /all-requests [get]
func (h *LeaveHandler) AllRequests(c echo.Context) error {
	requests, err := h.backend.AllRequests(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, leaveRequestListResponse{Data: requests})
}

// CreateForm returns the data the create-request form needs up front.
//
// @Summary      Create-request form data
// @Tags         leave-requests
// @Produce      json
// @Success      200  {object}  createFormResponse
// @Router       /leave-requests/create [get]
func (h *LeaveHandler) CreateForm(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	balance, err := h.backend.LeaveBalance(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, createFormResponse{Balance: balance})
}

// Create submits a new leave request.
//
// @Summary      Create a leave request
// @Tags         leave-requests
// @Accept       json
// @Produce      json
// @Param        body  body      createLeaveRequestRequest  true  "Leave request"
// @Success      201   {object}  leaveRequestResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /leave-requests [post]
func (h *LeaveHandler) Create(c echo.Context) error {
	var req createLeaveRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	// The guard is best-effort: a failed check is logged and the
	// submission proceeds.
	if h.guard != nil {
		dup, err := h.guard.IsDuplicate(ctx, identity.UserID, req.LeaveTypeID, req.StartDate, req.EndDate)
		switch {
		case err != nil:
			h.log.Warn().Err(err).Int("user_id", identity.UserID).Msg("submit guard check failed")
		case dup:
			return domain.ErrDuplicateSubmission
		}
	}

	created, err := h.backend.CreateRequest(ctx, ports.CreateLeaveRequestInput{
		LeaveTypeID: req.LeaveTypeID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Reason:      req.Reason,
	})
	if err != nil {
		return err
	}

	if h.guard != nil {
		_ = h.guard.Mark(ctx, identity.UserID, req.LeaveTypeID, req.StartDate, req.EndDate)
	}
	return c.JSON(http.StatusCreated, leaveRequestResponse{Data: created})
}

// Approve marks a pending request approved.
//
// @Summary      Approve a leave request
// @Tags         leave-requests
// @Param        id  path  int  true  "Leave request id"
// @Success      204
// @Router       /leave-requests/{id}/approve [put]
func (h *LeaveHandler) Approve(c echo.Context) error {
	return h.action(c, h.backend.ApproveRequest)
}

// Reject marks a pending request rejected.
//
// @Summary      Reject a leave request
// @Tags         leave-requests
// @Param        id  path  int  true  "Leave request id"
// @Success      204
// @Router       /leave-requests/{id}/reject [put]
func (h *LeaveHandler) Reject(c echo.Context) error {
	return h.action(c, h.backend.RejectRequest)
}

// Cancel withdraws the caller's own request.
//
// @Summary      Cancel a leave request
// @Tags         leave-requests
// @Param        id  path  int  true  "Leave request id"
// @Success      204
// @Router       /leave-requests/{id}/cancel [put]
func (h *LeaveHandler) Cancel(c echo.Context) error {
	return h.action(c, h.backend.CancelRequest)
}

func (h *LeaveHandler) action(c echo.Context, fn func(ctx context.Context, requestID int) error) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request id")
	}
	if err := fn(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
