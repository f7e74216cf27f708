package ports

import "context"

// SessionPersistence stores the (token, user) pair for a single portal
// session. Both values are written together and removed together; Load
// returns empty strings for values that are absent.
type SessionPersistence interface {
	Save(ctx context.Context, token, user string) error
	Load(ctx context.Context) (token, user string, err error)
	Delete(ctx context.Context) error
}

// SessionPersistenceFactory yields the persistence bound to a portal
// session id.
type SessionPersistenceFactory func(sessionID string) SessionPersistence
