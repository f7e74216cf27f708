package domain

import "errors"

var (
	// ErrAuthenticationFailed covers invalid credentials, an unreachable
	// backend during login, or a malformed token in the login response.
	// Recovered locally as a form-level message; the session is untouched.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrSessionInvalidated is raised when any protected backend call
	// returns 401 after a session was established. Always escalates to a
	// forced logout and a redirect to the login entry point.
	ErrSessionInvalidated = errors.New("session invalidated")

	// ErrForbidden means the authenticated identity lacks a required role.
	// The session is untouched.
	ErrForbidden = errors.New("access forbidden")

	// ErrMalformedSession marks corrupt or partial persisted session data.
	// It never reaches a user: restore recovers silently as anonymous.
	ErrMalformedSession = errors.New("malformed persisted session")

	// ErrBackendUnavailable covers transport failures and unexpected
	// statuses from the upstream leave API on data endpoints.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrDuplicateSubmission is returned when the submit guard detects a
	// repeated create-request within the guard window.
	ErrDuplicateSubmission = errors.New("duplicate submission")
)
