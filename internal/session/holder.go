package session

import (
	"fmt"
	"sync"
	"time"
)

// State is the observable part of a session.
type State struct {
	Authenticated bool `json:"authenticated"`
	Role          Role `json:"role"`
}

// Holder owns the state of one visitor's session. A new holder is always
// unauthenticated; Logout returns it to that state.
type Holder struct {
	id      string
	created time.Time

	mu       sync.RWMutex
	state    State
	lastSeen time.Time
}

// NewHolder returns an unauthenticated holder.
func NewHolder(id string) *Holder {
	now := time.Now().UTC()
	return &Holder{id: id, created: now, lastSeen: now}
}

func (h *Holder) ID() string { return h.id }

func (h *Holder) CreatedAt() time.Time { return h.created }

// Login marks the holder authenticated with role. The role must be one of
// the three selectable roles; nothing else is checked.
func (h *Holder) Login(role Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, string(role))
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = State{Authenticated: true, Role: role}
	h.lastSeen = time.Now().UTC()
	return nil
}

// Logout clears both fields.
func (h *Holder) Logout() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = State{}
	h.lastSeen = time.Now().UTC()
}

// State returns a snapshot.
func (h *Holder) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

func (h *Holder) touch(now time.Time) {
	h.mu.Lock()
	h.lastSeen = now
	h.mu.Unlock()
}

func (h *Holder) idleSince() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastSeen
}
