package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/bt-group/leave-portal/internal/core/domain"
	"github.com/bt-group/leave-portal/internal/core/ports"
	"github.com/bt-group/leave-portal/internal/core/session"
)

// AuthGateway performs the login handshake with the upstream leave API and
// interprets its result. It owns the two session-ending flows as well:
// explicit logout and forced invalidation after an upstream 401.
//
// The gateway is shared across portal sessions; the store for the session
// being acted on is passed per call.
type AuthGateway struct {
	backend ports.LeaveBackend
	audit   ports.AuditRecorder
	log     zerolog.Logger

	mu          sync.Mutex
	invalidated []func(store *session.Store)
}

func NewAuthGateway(backend ports.LeaveBackend, audit ports.AuditRecorder, log zerolog.Logger) *AuthGateway {
	return &AuthGateway{backend: backend, audit: audit, log: log}
}

// Login exchanges credentials for a bearer token, decodes the token's
// identity claims, and installs the session. On any failure the session is
// left untouched and domain.ErrAuthenticationFailed is returned; the caller
// owns user-facing messaging.
//
// The token's signature is NOT verified here: the portal trusts the
// backend's signature and only reads the claims payload.
func (g *AuthGateway) Login(ctx context.Context, store *session.Store, email, password string) (domain.Identity, error) {
	store.MarkResolving(true)
	defer store.MarkResolving(false)

	token, err := g.backend.Login(ctx, email, password)
	if err != nil {
		g.log.Info().Str("email", email).Err(err).Msg("login rejected")
		g.record(ctx, ports.AuditEntry{Event: ports.AuditLoginFailed, Email: email, SessionID: store.ID()})
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrAuthenticationFailed, err)
	}

	identity, err := decodeIdentity(token)
	if err != nil {
		g.log.Warn().Str("email", email).Err(err).Msg("login token unusable")
		g.record(ctx, ports.AuditEntry{Event: ports.AuditLoginFailed, Email: email, SessionID: store.ID()})
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrAuthenticationFailed, err)
	}

	store.Set(ctx, token, identity)
	g.log.Info().Str("email", identity.Email).Int("role_id", int(identity.RoleID)).Msg("login succeeded")
	g.record(ctx, ports.AuditEntry{
		Event:     ports.AuditLogin,
		Email:     identity.Email,
		RoleID:    identity.RoleID,
		UserID:    identity.UserID,
		SessionID: store.ID(),
	})
	return identity, nil
}

// Logout clears the session. The bearer token model is stateless, so the
// backend is not notified.
func (g *AuthGateway) Logout(ctx context.Context, store *session.Store) {
	snap := store.Snapshot()
	store.Clear(ctx)
	entry := ports.AuditEntry{Event: ports.AuditLogout, SessionID: store.ID()}
	if snap.Identity != nil {
		entry.Email = snap.Identity.Email
		entry.RoleID = snap.Identity.RoleID
		entry.UserID = snap.Identity.UserID
	}
	g.record(ctx, entry)
}

// Invalidate handles the ambient 401 policy: the session is cleared
// unconditionally and every invalidation subscriber is notified so the
// rendering layer can redirect to the login entry point. The originally
// attempted location is deliberately not preserved.
func (g *AuthGateway) Invalidate(ctx context.Context, store *session.Store) {
	snap := store.Snapshot()
	store.Clear(ctx)
	g.log.Info().Str("session_id", store.ID()).Msg("session invalidated by upstream 401")

	entry := ports.AuditEntry{Event: ports.AuditSessionInvalidated, SessionID: store.ID()}
	if snap.Identity != nil {
		entry.Email = snap.Identity.Email
		entry.RoleID = snap.Identity.RoleID
		entry.UserID = snap.Identity.UserID
	}
	g.record(ctx, entry)

	g.mu.Lock()
	subs := append([]func(*session.Store){}, g.invalidated...)
	g.mu.Unlock()
	for _, fn := range subs {
		fn(store)
	}
}

// OnInvalidated registers fn to run whenever a session is force-cleared by
// the 401 policy. The top-level router subscribes to issue the redirect,
// keeping the gateway decoupled from the rendering layer.
func (g *AuthGateway) OnInvalidated(fn func(store *session.Store)) {
	g.mu.Lock()
	g.invalidated = append(g.invalidated, fn)
	g.mu.Unlock()
}

func (g *AuthGateway) record(ctx context.Context, entry ports.AuditEntry) {
	if g.audit == nil {
		return
	}
	entry.At = time.Now().UTC()
	if err := g.audit.Record(ctx, entry); err != nil {
		g.log.Warn().Err(err).Str("event", entry.Event).Msg("audit record failed")
	}
}

// decodeIdentity reads the identity claims from the token's payload
// segment without verifying the signature.
func decodeIdentity(token string) (domain.Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return domain.Identity{}, fmt.Errorf("decode token: %w", err)
	}

	email, _ := claims["email"].(string)
	roleID, okRole := numericClaim(claims["roleId"])
	userID, okUser := numericClaim(claims["userId"])

	identity := domain.Identity{Email: email, RoleID: domain.RoleID(roleID), UserID: userID}
	if !okRole || !okUser || !identity.Valid() {
		return domain.Identity{}, fmt.Errorf("decode token: incomplete identity claims")
	}
	return identity, nil
}

// numericClaim accepts the JSON number representations golang-jwt may
// produce for a claim.
func numericClaim(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
