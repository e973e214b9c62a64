package session

import (
	"context"
	"sync"

	"zentask/internal/api"
	"zentask/internal/models"
)

// Session tracks the current user and the persisted token behind it. It is
// handed to each view explicitly; there is no package-level state.
type Session struct {
	store *Store
	svc   api.Service

	mu   sync.RWMutex
	user *models.User
}

// New creates a Session over the given credential store and backend.
func New(store *Store, svc api.Service) *Session {
	return &Session{store: store, svc: svc}
}

// User returns the resolved user, or nil while unauthenticated.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Token returns the persisted token, "" when absent or expired.
func (s *Session) Token() string {
	token, err := s.store.Token()
	if err != nil {
		return ""
	}
	return token
}

// Login sets the current user and persists the token. The in-memory
// session is established even if the persist fails; the error only means
// the session won't survive a restart.
func (s *Session) Login(user models.User, token string) error {
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return s.store.SaveToken(token)
}

// Logout removes the persisted token and clears the current user.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	return s.store.ClearToken()
}

// Restore resolves the user from the persisted token via the profile
// endpoint. Any failure — no token, a rejected token, or an unreachable
// backend — clears the session and returns nil; nothing is surfaced to the
// caller beyond the unauthenticated state.
func (s *Session) Restore(ctx context.Context) *models.User {
	token := s.Token()
	if token == "" {
		return nil
	}

	user, err := s.svc.Profile(ctx, token)
	if err != nil {
		s.store.ClearToken()
		s.mu.Lock()
		s.user = nil
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return &user
}
