package signaling

import "sync"

// Entry records one online user and the live connection it is reachable on.
type Entry struct {
	UserID       string `json:"userId"`
	DisplayName  string `json:"displayName"`
	ConnectionID string `json:"connectionId"`
}

// Registry maps user identities to their live connections. A user has at
// most one entry; joining again from a new connection overwrites the old
// handle (reconnect semantics), so a stale socket can never shadow a live
// one.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]*Entry
	byConn map[string]*Entry
	order  []string // userIDs in join order, for stable snapshots
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]*Entry),
		byConn: make(map[string]*Entry),
	}
}

// Join inserts or overwrites the entry for userID. On reconnect the previous
// connection index is dropped so FindByConnection no longer resolves the
// dead handle.
func (r *Registry) Join(userID, displayName, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byUser[userID]; ok {
		delete(r.byConn, existing.ConnectionID)
		existing.DisplayName = displayName
		existing.ConnectionID = connID
		r.byConn[connID] = existing
		return
	}

	entry := &Entry{UserID: userID, DisplayName: displayName, ConnectionID: connID}
	r.byUser[userID] = entry
	r.byConn[connID] = entry
	r.order = append(r.order, userID)
}

func (r *Registry) Find(userID string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.byUser[userID]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

// FindByConnection resolves which user a connection belongs to. Absent when
// the socket dropped before ever sending a join.
func (r *Registry) FindByConnection(connID string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.byConn[connID]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

// Remove deletes the entry owning connID, if any. A connection superseded by
// a reconnect is no longer indexed, so its late Remove cannot evict the
// user's fresh entry.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.byConn[connID]
	if !ok {
		return
	}
	delete(r.byConn, connID)
	delete(r.byUser, entry.UserID)
	for i, id := range r.order {
		if id == entry.UserID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Snapshot returns the online set in join order. The slice is a copy; the
// caller may hold it across later mutations.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	online := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		if entry, ok := r.byUser[id]; ok {
			online = append(online, *entry)
		}
	}
	return online
}
