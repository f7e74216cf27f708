package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bt-group/leave-portal/internal/core/domain"
	"github.com/bt-group/leave-portal/internal/core/ports"
)

// Snapshot is an immutable view of the session at a point in time.
// Identity is non-nil if and only if Token is non-empty.
type Snapshot struct {
	Token     string
	Identity  *domain.Identity
	Resolving bool
}

// Authenticated reports whether the snapshot carries an identity.
func (s Snapshot) Authenticated() bool { return s.Identity != nil }

// Store is the single source of truth for "who is logged in" within one
// portal session. All mutations are atomic replace or clear; every
// registered subscriber observes the new snapshot synchronously with the
// mutation, so no consumer can act on a stale session.
type Store struct {
	mu          sync.Mutex
	id          string
	token       string
	identity    *domain.Identity
	resolving   bool
	persistence ports.SessionPersistence
	subs        []func(Snapshot)
	log         zerolog.Logger
}

// NewStore returns an empty Store in the resolving state. Call Restore to
// finish resolution before serving guarded traffic.
func NewStore(id string, p ports.SessionPersistence, log zerolog.Logger) *Store {
	return &Store{id: id, persistence: p, resolving: true, log: log}
}

// ID returns the portal session id this store is bound to.
func (s *Store) ID() string { return s.id }

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to be invoked with the new snapshot after every
// mutation. Subscribers must not mutate the store from the callback.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Restore populates the session from persisted state. Only a complete,
// well-formed (token, user) pair resurrects a session; anything else is
// treated as anonymous and any partial persisted state is removed. The
// resolving flag is cleared regardless of outcome, and restore never fails
// the caller.
func (s *Store) Restore(ctx context.Context) {
	token, user, err := s.persistence.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session load failed, treating as anonymous")
		s.apply("", nil)
		return
	}

	identity, err := parseIdentity(user)
	if err != nil || token == "" {
		if token != "" || user != "" {
			s.log.Debug().Msg("discarding malformed persisted session")
			if delErr := s.persistence.Delete(ctx); delErr != nil {
				s.log.Warn().Err(delErr).Msg("failed to remove partial session state")
			}
		}
		s.apply("", nil)
		return
	}

	s.apply(token, identity)
}

// Set atomically replaces the session with the given credential and
// identity, persisting both. A persistence failure is logged but does not
// reject the in-memory session: the login stands for the life of the
// process.
func (s *Store) Set(ctx context.Context, token string, identity domain.Identity) {
	user, err := json.Marshal(identity)
	if err == nil {
		err = s.persistence.Save(ctx, token, string(user))
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to persist session")
	}
	s.apply(token, &identity)
}

// Clear atomically empties the session and removes persisted values.
func (s *Store) Clear(ctx context.Context) {
	if err := s.persistence.Delete(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to remove persisted session")
	}
	s.apply("", nil)
}

// MarkResolving flips the resolution-in-progress flag, notifying
// subscribers. The auth gateway raises it for the duration of a login
// exchange; Restore, Set, and Clear all lower it.
func (s *Store) MarkResolving(v bool) {
	s.mu.Lock()
	if s.resolving == v {
		s.mu.Unlock()
		return
	}
	s.resolving = v
	snap, subs := s.snapshotLocked(), append([]func(Snapshot){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

// apply installs the new session value, clears the resolving flag, and
// notifies subscribers with the resulting snapshot. Last writer wins.
func (s *Store) apply(token string, identity *domain.Identity) {
	s.mu.Lock()
	s.token = token
	s.identity = identity
	s.resolving = false
	snap, subs := s.snapshotLocked(), append([]func(Snapshot){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Token: s.token, Identity: s.identity, Resolving: s.resolving}
}

// parseIdentity decodes the persisted "user" value. It returns
// domain.ErrMalformedSession for anything that does not decode into a
// complete identity.
func parseIdentity(user string) (*domain.Identity, error) {
	if user == "" {
		return nil, domain.ErrMalformedSession
	}
	var identity domain.Identity
	if err := json.Unmarshal([]byte(user), &identity); err != nil {
		return nil, domain.ErrMalformedSession
	}
	if !identity.Valid() {
		return nil, domain.ErrMalformedSession
	}
	return &identity, nil
}
