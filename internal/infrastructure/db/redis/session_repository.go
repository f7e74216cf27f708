package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bt-group/leave-portal/internal/core/ports"
)

const defaultSessionTTL = 24 * time.Hour

// SessionRepository persists the (token, user) pair of one portal session
// under session-scoped keys:
//
//	session:<id>:token
//	session:<id>:user
//
// Both values are written and removed together; the TTL bounds how long an
// idle session can be restored.
type SessionRepository struct {
	client    *redis.Client
	sessionID string
	ttl       time.Duration
}

var _ ports.SessionPersistence = (*SessionRepository)(nil)

// NewSessionRepository returns the persistence bound to sessionID.
func NewSessionRepository(client *redis.Client, sessionID string, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionRepository{client: client, sessionID: sessionID, ttl: ttl}
}

// Factory adapts NewSessionRepository to ports.SessionPersistenceFactory.
func Factory(client *redis.Client, ttl time.Duration) ports.SessionPersistenceFactory {
	return func(sessionID string) ports.SessionPersistence {
		return NewSessionRepository(client, sessionID, ttl)
	}
}

func (r *SessionRepository) Save(ctx context.Context, token, user string) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key("token"), token, r.ttl)
	pipe.Set(ctx, r.key("user"), user, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Load(ctx context.Context) (string, string, error) {
	values, err := r.client.MGet(ctx, r.key("token"), r.key("user")).Result()
	if err != nil {
		return "", "", fmt.Errorf("load session: %w", err)
	}
	return asString(values[0]), asString(values[1]), nil
}

func (r *SessionRepository) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key("token"), r.key("user")).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) key(field string) string {
	return fmt.Sprintf("session:%s:%s", r.sessionID, field)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
