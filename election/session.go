// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"sync"

	"github.com/google/uuid"
)

// SessionState tracks an in-progress voting attempt through the
// identify -> code -> verify -> cast sequence.
type SessionState int

const (
	StateIdentified SessionState = iota
	StateCodePending
	StateCodeVerified
)

// session is the in-memory record of one voting attempt. It carries the
// voter reference and origin address explicitly; nothing about the
// attempt lives in ambient request state.
type session struct {
	voterID string
	origin  string
	state   SessionState
}

// sessionRegistry holds in-flight voting sessions keyed by opaque token.
// Sessions are discarded on success and on any terminal failure; an
// abandoned session leaves no durable state beyond its issued code,
// which simply expires.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*session)}
}

func (r *sessionRegistry) create(voterID, origin string) string {
	token := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[token] = &session{voterID: voterID, origin: origin, state: StateIdentified}
	return token
}

// get returns a snapshot of the session so callers never hold a
// reference that another goroutine may mutate.
func (r *sessionRegistry) get(token string) (session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[token]
	if !ok {
		return session{}, false
	}
	return *s, true
}

func (r *sessionRegistry) setState(token string, state SessionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[token]; ok {
		s.state = state
	}
}

func (r *sessionRegistry) drop(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
}
