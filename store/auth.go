package store

import (
	"sync"
	"time"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
)

// AuthPhase is the auth store's lifecycle phase; exactly one holds at any
// time.
type AuthPhase string

const (
	AuthIdle            AuthPhase = "idle"
	AuthLoading         AuthPhase = "loading"
	AuthAuthenticated   AuthPhase = "authenticated"
	AuthUnauthenticated AuthPhase = "unauthenticated"
	AuthError           AuthPhase = "error"
)

// AuthStore holds the current session token and user identity. Only the
// auth store writes the token; every outbound request reads it through
// Token.
type AuthStore struct {
	mu      sync.Mutex
	phase   AuthPhase
	user    *models.User
	token   string
	errMsg  string
	created time.Time
	notifier
}

func NewAuthStore() *AuthStore {
	return &AuthStore{phase: AuthIdle}
}

func (s *AuthStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	unsub := s.subscribe(fn)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		unsub()
	}
}

// BeginLogin marks a login attempt in flight.
func (s *AuthStore) BeginLogin() {
	s.mu.Lock()
	s.phase = AuthLoading
	s.user = nil
	s.token = ""
	s.errMsg = ""
	fns := s.snapshot()
	s.mu.Unlock()
	run(fns)
}

func (s *AuthStore) LoginSuccess(user models.User, token string) {
	s.mu.Lock()
	s.phase = AuthAuthenticated
	u := user
	s.user = &u
	s.token = token
	s.errMsg = ""
	s.created = time.Now()
	fns := s.snapshot()
	s.mu.Unlock()
	run(fns)
}

// LoginFailure is terminal per attempt; the user re-triggers login, there
// are no retries.
func (s *AuthStore) LoginFailure(message string) {
	s.mu.Lock()
	s.phase = AuthError
	s.user = nil
	s.token = ""
	s.errMsg = message
	fns := s.snapshot()
	s.mu.Unlock()
	run(fns)
}

func (s *AuthStore) Logout() {
	s.mu.Lock()
	s.phase = AuthUnauthenticated
	s.user = nil
	s.token = ""
	s.errMsg = ""
	fns := s.snapshot()
	s.mu.Unlock()
	run(fns)
}

// UserPatch carries partial profile updates; nil fields are untouched.
type UserPatch struct {
	Name  *string
	Email *string
}

func (s *AuthStore) UpdateUser(patch UserPatch) {
	s.mu.Lock()
	if s.user != nil {
		if patch.Name != nil {
			s.user.Name = *patch.Name
		}
		if patch.Email != nil {
			s.user.Email = *patch.Email
		}
	}
	fns := s.snapshot()
	s.mu.Unlock()
	run(fns)
}

func (s *AuthStore) Phase() AuthPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *AuthStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the current user, or nil when unauthenticated.
func (s *AuthStore) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *AuthStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Session returns the persistable session, or nil when unauthenticated.
func (s *AuthStore) Session() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != AuthAuthenticated || s.user == nil {
		return nil
	}
	return &models.Session{Token: s.token, User: *s.user, CreatedAt: s.created}
}

// Restore rehydrates a persisted session on startup.
func (s *AuthStore) Restore(sess models.Session) {
	s.mu.Lock()
	s.phase = AuthAuthenticated
	u := sess.User
	s.user = &u
	s.token = sess.Token
	s.created = sess.CreatedAt
	s.errMsg = ""
	fns := s.snapshot()
	s.mu.Unlock()
	run(fns)
}
