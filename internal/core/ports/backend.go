package ports

import (
	"context"

	"github.com/bt-group/leave-portal/internal/core/domain"
)

// CreateLeaveRequestInput carries a new leave request to the backend.
type CreateLeaveRequestInput struct {
	LeaveTypeID int
	StartDate   string
	EndDate     string
	Reason      string
}

// LeaveBackend is the portal's view of the upstream leave-management REST
// API. Implementations attach the session's bearer token to every call and
// surface domain.ErrSessionInvalidated on any 401 from a protected endpoint.
type LeaveBackend interface {
	// Login exchanges credentials for a bearer token. A non-2xx response
	// is a plain error, never domain.ErrSessionInvalidated: the 401
	// invalidation policy does not apply to this endpoint.
	Login(ctx context.Context, email, password string) (token string, err error)

	AllRequests(ctx context.Context) ([]domain.LeaveRequest, error)
	PendingRequests(ctx context.Context) ([]domain.LeaveRequest, error)
	RequestsForUser(ctx context.Context, userID int) ([]domain.LeaveRequest, error)
	CreateRequest(ctx context.Context, in CreateLeaveRequestInput) (*domain.LeaveRequest, error)
	ApproveRequest(ctx context.Context, requestID int) error
	RejectRequest(ctx context.Context, requestID int) error
	CancelRequest(ctx context.Context, requestID int) error

	Users(ctx context.Context) ([]domain.User, error)
	LeaveBalance(ctx context.Context, userID int) (*domain.LeaveBalance, error)
}
