package handler

import "github.com/bt-group/leave-portal/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type identityResponse struct {
	Email  string `json:"email"`
	RoleID int    `json:"roleId"`
	UserID int    `json:"userId"`
	Role   string `json:"role"`
}

type loginResponse struct {
	Identity identityResponse `json:"identity"`
	// Redirect is where the client should navigate next: the originally
	// requested location when the visitor was bounced to login, otherwise
	// the dashboard.
	Redirect string `json:"redirect"`
}

func toIdentityResponse(id domain.Identity) identityResponse {
	return identityResponse{
		Email:  id.Email,
		RoleID: int(id.RoleID),
		UserID: id.UserID,
		Role:   id.RoleID.Name(),
	}
}

// --- Navigation ---

type navigationEntryResponse struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type navigationResponse struct {
	Entries []navigationEntryResponse `json:"entries"`
}

// --- Leave requests ---

type createLeaveRequestRequest struct {
	LeaveTypeID int    `json:"leaveTypeId" validate:"required,gt=0"`
	StartDate   string `json:"startDate"   validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate"     validate:"required,datetime=2006-01-02"`
	Reason      string `json:"reason"      validate:"max=500"`
}

type leaveRequestListResponse struct {
	Data []domain.LeaveRequest `json:"data"`
}

type leaveRequestResponse struct {
	Data *domain.LeaveRequest `json:"data"`
}

type createFormResponse struct {
	Balance *domain.LeaveBalance `json:"balance"`
}

// --- Dashboard ---

type dashboardResponse struct {
	Balance      *domain.LeaveBalance  `json:"balance"`
	PendingCount int                   `json:"pendingCount"`
	Recent       []domain.LeaveRequest `json:"recent"`
}

// --- Users ---

type userListResponse struct {
	Data []domain.User `json:"data"`
}
