package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bt-group/leave-portal/internal/core/ports"
)

const (
	defaultIdleTTL = 24 * time.Hour
	sweepInterval  = time.Minute
)

// Manager hands out the Store bound to a portal session id. A store is
// created and restored from persistence synchronously on first access, so
// by the time a caller holds the store its resolution has finished.
//
// Stores idle longer than the ttl are evicted, so unsolicited cookie
// values cannot grow the map without bound. Eviction only forgets the
// in-memory half; a live session restores from Redis on its next request.
type Manager struct {
	mu        sync.Mutex
	stores    map[string]*storeEntry
	factory   ports.SessionPersistenceFactory
	ttl       time.Duration
	lastSweep time.Time
	log       zerolog.Logger

	now func() time.Time
}

type storeEntry struct {
	store    *Store
	lastSeen time.Time
}

// NewManager returns a Manager evicting stores idle longer than ttl.
// The ttl should match the persistence TTL so both halves of a session
// expire together.
func NewManager(factory ports.SessionPersistenceFactory, ttl time.Duration, log zerolog.Logger) *Manager {
	if ttl <= 0 {
		ttl = defaultIdleTTL
	}
	return &Manager{
		stores:  make(map[string]*storeEntry),
		factory: factory,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
	}
}

// Get returns the store for sessionID, restoring it on first access.
func (m *Manager) Get(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	m.sweepLocked()
	entry, ok := m.stores[sessionID]
	if !ok {
		store := NewStore(sessionID, m.factory(sessionID), m.log.With().Str("session_id", sessionID).Logger())
		entry = &storeEntry{store: store}
		m.stores[sessionID] = entry
	}
	entry.lastSeen = m.now()
	m.mu.Unlock()

	if !ok {
		entry.store.Restore(ctx)
	}
	return entry.store
}

// Drop forgets the in-memory store for sessionID. Persisted state is not
// touched; the next Get restores from persistence again.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	delete(m.stores, sessionID)
	m.mu.Unlock()
}

// sweepLocked evicts stores whose last access is older than the ttl. It
// runs at most once per sweepInterval so Get stays cheap.
func (m *Manager) sweepLocked() {
	now := m.now()
	if now.Sub(m.lastSweep) < sweepInterval {
		return
	}
	m.lastSweep = now

	evicted := 0
	for id, entry := range m.stores {
		if now.Sub(entry.lastSeen) > m.ttl {
			delete(m.stores, id)
			evicted++
		}
	}
	if evicted > 0 {
		m.log.Debug().Int("evicted", evicted).Msg("idle sessions evicted")
	}
}
