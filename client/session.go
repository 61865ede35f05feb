package client

import (
	"errors"
	"sync"
)

// ErrNoSession is returned when an authenticated call is attempted without
// a logged-in session.
var ErrNoSession = errors.New("no active session")

// Session holds the auth token and current user snapshot for one page
// session. It is set at login, cleared at logout, and injected into every
// component that needs it rather than read from ambient storage.
type Session struct {
	mu    sync.RWMutex
	token string
	user  User
}

func NewSession() *Session {
	return &Session{}
}

// Set records the credentials produced by a successful login.
func (s *Session) Set(token string, user User) {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
}

// Clear wipes the session at logout.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.user = User{}
	s.mu.Unlock()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Active reports whether a token is held; it does not validate the token.
func (s *Session) Active() bool {
	return s.Token() != ""
}
