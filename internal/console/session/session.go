// Package session holds the console's bearer token and the logout side
// effect fired when the API answers 401.
package session

import "sync"

// Store is the console-side credential holder. Invalidate latches: the
// logout callback fires once per credential lifetime no matter how many
// concurrent 401s arrive, and arms again after the next SetToken.
type Store struct {
	mu          sync.Mutex
	token       string
	invalidated bool
	onLogout    func()
}

// NewStore builds a credential store. onLogout may be nil.
func NewStore(onLogout func()) *Store {
	return &Store{onLogout: onLogout}
}

// SetToken installs fresh credentials and re-arms the logout latch.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.invalidated = false
}

// Token returns the current bearer token, empty when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Invalidate clears credentials and fires the logout callback exactly once
// until credentials are set again.
func (s *Store) Invalidate() {
	s.mu.Lock()
	if s.invalidated {
		s.mu.Unlock()
		return
	}
	s.invalidated = true
	s.token = ""
	callback := s.onLogout
	s.mu.Unlock()

	if callback != nil {
		callback()
	}
}

// Invalidated reports whether the latch has fired since the last SetToken.
func (s *Store) Invalidated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidated
}
