package ports

import (
	"context"
	"time"

	"github.com/bt-group/leave-portal/internal/core/domain"
)

// Audit event names recorded by the auth gateway.
const (
	AuditLogin              = "login"
	AuditLoginFailed        = "login_failed"
	AuditLogout             = "logout"
	AuditSessionInvalidated = "session_invalidated"
)

// AuditEntry is one auth event in the portal's audit trail.
type AuditEntry struct {
	Event     string
	Email     string
	RoleID    domain.RoleID
	UserID    int
	SessionID string
	At        time.Time
}

// AuditRecorder persists auth events. Recording is best-effort: callers
// log failures but never fail the auth flow on them.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}
