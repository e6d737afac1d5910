package app

import (
	"sync"

	"wayfare/internal/realtime/domain"
)

// PresenceRegistry tracks which users currently hold at least one live
// connection. It is constructed once at process start and injected into the
// lifecycle handler and the dispatcher; it is the only shared mutable state
// of the realtime core.
//
// A user may hold several connections at once (multiple tabs/devices), the
// registry keeps a set per user and a later connection never evicts an
// earlier one. The entry of a user is removed as soon as its set empties.
type PresenceRegistry struct {
	mu    sync.RWMutex
	conns map[string]map[domain.ConnectionID]*domain.Connection
	owner map[domain.ConnectionID]string
}

// NewPresenceRegistry create an empty registry
func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		conns: make(map[string]map[domain.ConnectionID]*domain.Connection),
		owner: make(map[domain.ConnectionID]string),
	}
}

// Register add the connection to its user's set, creating the entry if
// absent. Returns true when this is the user's first active connection.
func (r *PresenceRegistry) Register(conn *domain.Connection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.conns[conn.UserID]
	if !ok {
		set = make(map[domain.ConnectionID]*domain.Connection)
		r.conns[conn.UserID] = set
	}
	set[conn.ID] = conn
	r.owner[conn.ID] = conn.UserID

	return len(set) == 1
}

// Deregister remove the connection from whichever user's set holds it.
// Close events only identify the connection, so the reverse mapping recorded
// at handshake time resolves the owner. Deregistering an unknown id is a
// no-op. Returns the owner id and true when the user's set became empty.
func (r *PresenceRegistry) Deregister(id domain.ConnectionID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.owner[id]
	if !ok {
		return "", false
	}
	delete(r.owner, id)

	set := r.conns[userID]
	delete(set, id)
	if len(set) == 0 {
		delete(r.conns, userID)
		return userID, true
	}
	return userID, false
}

// ActiveConnectionsFor read-only lookup used by the dispatcher. Returns an
// empty slice when the user has no live connection, never an error.
func (r *PresenceRegistry) ActiveConnectionsFor(userID string) []*domain.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.conns[userID]
	out := make([]*domain.Connection, 0, len(set))
	for _, c := range set {
		out = append(out, c)
	}
	return out
}

// AllConnections every live connection, used by the snapshot broadcast
func (r *PresenceRegistry) AllConnections() []*domain.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Connection
	for _, set := range r.conns {
		for _, c := range set {
			out = append(out, c)
		}
	}
	return out
}

// OnlineUserIDs snapshot of all user ids with at least one live connection
func (r *PresenceRegistry) OnlineUserIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.conns))
	for userID := range r.conns {
		out = append(out, userID)
	}
	return out
}
