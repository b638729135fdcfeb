// Package client implements the client-side half of the system: the
// local session, the view state the UI renders from, and the poll loop
// that keeps the view converging on the shared store.
package client

import (
	"sync"

	"duospace/domain"
)

// SessionHolder keeps the logged-in session for one client process and
// notifies registered subscribers whenever it changes. Subscription is
// explicit: the rendering layer registers callbacks here instead of
// listening on ambient global state.
type SessionHolder struct {
	mu          sync.RWMutex
	session     *domain.Session
	subscribers []func(*domain.Session)
}

func NewSessionHolder() *SessionHolder {
	return &SessionHolder{}
}

// Subscribe registers a callback invoked on every session change. The
// callback receives nil on logout.
func (h *SessionHolder) Subscribe(fn func(*domain.Session)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers = append(h.subscribers, fn)
}

func (h *SessionHolder) Set(session domain.Session) {
	h.mu.Lock()
	h.session = &session
	subscribers := append([]func(*domain.Session){}, h.subscribers...)
	h.mu.Unlock()

	for _, fn := range subscribers {
		fn(&session)
	}
}

// Clear destroys the session (logout). The session was never persisted
// to the shared store, so this is purely local.
func (h *SessionHolder) Clear() {
	h.mu.Lock()
	h.session = nil
	subscribers := append([]func(*domain.Session){}, h.subscribers...)
	h.mu.Unlock()

	for _, fn := range subscribers {
		fn(nil)
	}
}

func (h *SessionHolder) Current() (domain.Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.session == nil {
		return domain.Session{}, false
	}
	return *h.session, true
}
