package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/bt-group/leave-portal/internal/core/domain"
	"github.com/bt-group/leave-portal/internal/core/ports"
	"github.com/bt-group/leave-portal/internal/core/session"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubBackend struct {
	token    string
	loginErr error
}

func (b *stubBackend) Login(context.Context, string, string) (string, error) {
	if b.loginErr != nil {
		return "", b.loginErr
	}
	return b.token, nil
}

func (b *stubBackend) AllRequests(context.Context) ([]domain.LeaveRequest, error)     { return nil, nil }
func (b *stubBackend) PendingRequests(context.Context) ([]domain.LeaveRequest, error) { return nil, nil }
func (b *stubBackend) RequestsForUser(context.Context, int) ([]domain.LeaveRequest, error) {
	return nil, nil
}
func (b *stubBackend) CreateRequest(context.Context, ports.CreateLeaveRequestInput) (*domain.LeaveRequest, error) {
	return nil, nil
}
func (b *stubBackend) ApproveRequest(context.Context, int) error { return nil }
func (b *stubBackend) RejectRequest(context.Context, int) error  { return nil }
func (b *stubBackend) CancelRequest(context.Context, int) error  { return nil }
func (b *stubBackend) Users(context.Context) ([]domain.User, error) {
	return nil, nil
}
func (b *stubBackend) LeaveBalance(context.Context, int) (*domain.LeaveBalance, error) {
	return nil, nil
}

type stubAudit struct {
	entries []ports.AuditEntry
}

func (a *stubAudit) Record(_ context.Context, entry ports.AuditEntry) error {
	a.entries = append(a.entries, entry)
	return nil
}

type memoryPersistence struct {
	token, user string
}

func (p *memoryPersistence) Save(_ context.Context, token, user string) error {
	p.token, p.user = token, user
	return nil
}
func (p *memoryPersistence) Load(context.Context) (string, string, error) {
	return p.token, p.user, nil
}
func (p *memoryPersistence) Delete(context.Context) error {
	p.token, p.user = "", ""
	return nil
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func resolvedStore() *session.Store {
	store := session.NewStore("sess-test", &memoryPersistence{}, zerolog.Nop())
	store.Restore(context.Background())
	return store
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestLogin_InstallsSessionFromTokenClaims(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"email": "admin@bt.com", "roleId": 1, "userId": 1})
	audit := &stubAudit{}
	gateway := NewAuthGateway(&stubBackend{token: token}, audit, zerolog.Nop())
	store := resolvedStore()

	identity, err := gateway.Login(context.Background(), store, "admin@bt.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if identity.Email != "admin@bt.com" || identity.RoleID != domain.RoleAdministrator || identity.UserID != 1 {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	snap := store.Snapshot()
	if snap.Token != token || !snap.Authenticated() {
		t.Fatalf("session not installed: %+v", snap)
	}
	if snap.Resolving {
		t.Fatalf("resolving flag should lower after login")
	}

	if len(audit.entries) != 1 || audit.entries[0].Event != ports.AuditLogin {
		t.Fatalf("expected a login audit entry, got %+v", audit.entries)
	}
}

func TestLogin_RejectedCredentialsLeaveSessionUntouched(t *testing.T) {
	audit := &stubAudit{}
	gateway := NewAuthGateway(&stubBackend{loginErr: errors.New("status 401")}, audit, zerolog.Nop())
	store := resolvedStore()

	_, err := gateway.Login(context.Background(), store, "admin@bt.com", "wrong")
	if !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}

	snap := store.Snapshot()
	if snap.Authenticated() || snap.Token != "" || snap.Resolving {
		t.Fatalf("failed login must leave the session anonymous and resolved: %+v", snap)
	}
	if len(audit.entries) != 1 || audit.entries[0].Event != ports.AuditLoginFailed {
		t.Fatalf("expected a failed-login audit entry, got %+v", audit.entries)
	}
}

func TestLogin_UnusableTokenIsAuthenticationFailure(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{"not a jwt", "garbage"},
		{"missing claims", signedToken(t, jwt.MapClaims{"email": "x@bt.com"})},
		{"unknown role", signedToken(t, jwt.MapClaims{"email": "x@bt.com", "roleId": 42, "userId": 5})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gateway := NewAuthGateway(&stubBackend{token: tc.token}, nil, zerolog.Nop())
			store := resolvedStore()

			_, err := gateway.Login(context.Background(), store, "x@bt.com", "pw")
			if !errors.Is(err, domain.ErrAuthenticationFailed) {
				t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
			}
			if store.Snapshot().Authenticated() {
				t.Fatalf("unusable token must not install a session")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Logout / Invalidate
// ---------------------------------------------------------------------------

func TestLogout_ClearsSession(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"email": "e@bt.com", "roleId": 3, "userId": 3})
	audit := &stubAudit{}
	gateway := NewAuthGateway(&stubBackend{token: token}, audit, zerolog.Nop())
	store := resolvedStore()

	if _, err := gateway.Login(context.Background(), store, "e@bt.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	gateway.Logout(context.Background(), store)

	if store.Snapshot().Authenticated() {
		t.Fatalf("logout left the session authenticated")
	}
	last := audit.entries[len(audit.entries)-1]
	if last.Event != ports.AuditLogout || last.Email != "e@bt.com" {
		t.Fatalf("unexpected logout audit entry: %+v", last)
	}
}

func TestInvalidate_ClearsSessionAndNotifiesSubscribers(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"email": "m@bt.com", "roleId": 2, "userId": 2})
	audit := &stubAudit{}
	gateway := NewAuthGateway(&stubBackend{token: token}, audit, zerolog.Nop())
	store := resolvedStore()

	if _, err := gateway.Login(context.Background(), store, "m@bt.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	var notified *session.Store
	gateway.OnInvalidated(func(s *session.Store) { notified = s })

	gateway.Invalidate(context.Background(), store)

	if store.Snapshot().Authenticated() {
		t.Fatalf("invalidate left the session authenticated")
	}
	if notified != store {
		t.Fatalf("invalidation subscriber not notified with the affected store")
	}
	last := audit.entries[len(audit.entries)-1]
	if last.Event != ports.AuditSessionInvalidated || last.Email != "m@bt.com" {
		t.Fatalf("unexpected invalidation audit entry: %+v", last)
	}
}

// ---------------------------------------------------------------------------
// Claim decoding
// ---------------------------------------------------------------------------

func TestDecodeIdentity_NumericClaimRepresentations(t *testing.T) {
	// JSON decoding hands golang-jwt float64 claims; make sure they land as
	// the integer identity fields.
	token := signedToken(t, jwt.MapClaims{"email": "e@bt.com", "roleId": float64(3), "userId": float64(3)})
	identity, err := decodeIdentity(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if identity.RoleID != domain.RoleEmployee || identity.UserID != 3 {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}
