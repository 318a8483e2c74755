package runtime

import (
	"fmt"
	"sync"
	"time"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
)

// Registry is the authoritative directory of online users. It maps a
// user id to its Session (outbound sink + connection metadata) and is
// the only cross-connection shared state besides the elector.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]contract.Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]contract.Session),
	}
}

// Add inserts a new session. It fails with errors.ErrDuplicateUser when
// the id is already present, so a colliding join can be rejected without
// touching the existing session.
func (r *Registry) Add(user domain.User, sink contract.EnvelopeSink, remoteAddr string) (contract.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[user.ID]; ok {
		return contract.Session{}, fmt.Errorf("%w: %s", errors.ErrDuplicateUser, user.ID)
	}

	session := contract.Session{
		User:       user,
		Sink:       sink,
		RemoteAddr: remoteAddr,
		Since:      time.Now(),
	}
	r.sessions[user.ID] = session
	return session, nil
}

// Remove is idempotent. Disconnect races are expected, so a missing id
// reports found=false instead of an error.
func (r *Registry) Remove(userID string) (contract.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[userID]
	if ok {
		delete(r.sessions, userID)
	}
	return session, ok
}

func (r *Registry) Get(userID string) (contract.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[userID]
	return session, ok
}

// ListOnline returns a snapshot copy of the current sessions. Iterating
// the snapshot never observes a registry mutation mid-iteration, so
// broadcasting never races with concurrent join/leave.
func (r *Registry) ListOnline() []contract.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]contract.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		snapshot = append(snapshot, session)
	}
	return snapshot
}

// ResolveSocketInfo answers out-of-band "who is this" queries with the
// human-readable remote endpoint of the user's connection.
func (r *Registry) ResolveSocketInfo(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[userID]
	if !ok {
		return "", false
	}
	return session.RemoteAddr, true
}

// MarkCoordinator sets the coordinator flag on the given user and clears
// it everywhere else, keeping the at-most-one invariant. An empty id
// just clears every flag.
func (r *Registry) MarkCoordinator(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, session := range r.sessions {
		session.User.Coordinator = id == userID
		r.sessions[id] = session
	}
}
