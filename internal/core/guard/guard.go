// Package guard decides whether a navigation target may render for the
// current session. The decision is purely a function of the session
// snapshot and the target's required roles; the guard keeps no state of
// its own.
package guard

import (
	"github.com/bt-group/leave-portal/internal/core/domain"
	"github.com/bt-group/leave-portal/internal/core/policy"
	"github.com/bt-group/leave-portal/internal/core/session"
)

// Decision is the outcome of evaluating a navigation attempt.
type Decision int

const (
	// DecisionResolving means session resolution is still in progress:
	// show a neutral indicator, no redirect, no content.
	DecisionResolving Decision = iota
	// DecisionLogin means the visitor is unauthenticated: redirect to the
	// login entry point, preserving the originally requested location.
	DecisionLogin
	// DecisionForbidden means the identity lacks a required role: render
	// an access-denied view without touching the session.
	DecisionForbidden
	// DecisionAllow means the requested view may render.
	DecisionAllow
)

func (d Decision) String() string {
	switch d {
	case DecisionResolving:
		return "resolving"
	case DecisionLogin:
		return "login"
	case DecisionForbidden:
		return "forbidden"
	default:
		return "allow"
	}
}

// Evaluate runs the per-navigation state machine.
func Evaluate(snap session.Snapshot, requiredRoles []domain.RoleID) Decision {
	if snap.Resolving {
		return DecisionResolving
	}
	if !snap.Authenticated() {
		return DecisionLogin
	}
	if !policy.IsAuthorized(snap.Identity, requiredRoles) {
		return DecisionForbidden
	}
	return DecisionAllow
}
