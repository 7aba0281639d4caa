package auth

import (
	"sync"

	"github.com/google/uuid"
)

// Session is the per-connection authenticated state created on
// LOGIN_SUCCESS and removed from the SessionStore on disconnect or
// when a later login by the same user supersedes it. There is no
// logout operation.
type Session struct {
	mu              sync.Mutex
	Token           string
	UserName        string
	currentDatabase string
}

// CurrentDatabase returns the session's selected database, or "" if
// none has been selected yet.
func (s *Session) CurrentDatabase() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentDatabase
}

// SetCurrentDatabase sets the session's selected database.
func (s *Session) SetCurrentDatabase(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentDatabase = name
}

// ClearCurrentDatabase clears the session's selected database, used
// when the current database is dropped out from under it.
func (s *Session) ClearCurrentDatabase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentDatabase = ""
}

// SessionStore tracks live sessions by token, and — per spec.md §4.4's
// single-session reference semantics — by user name, so that a fresh
// login supersedes any session already held by that user.
type SessionStore struct {
	mu      sync.RWMutex
	byToken map[string]*Session
	byUser  map[string]*Session
}

// NewSessionStore returns an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		byToken: make(map[string]*Session),
		byUser:  make(map[string]*Session),
	}
}

// Login mints a fresh, unguessable token for userName and registers
// the session, evicting any session already held by that user.
func (s *SessionStore) Login(userName string) *Session {
	sess := &Session{Token: uuid.NewString(), UserName: userName}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byUser[userName]; ok {
		delete(s.byToken, old.Token)
	}
	s.byToken[sess.Token] = sess
	s.byUser[userName] = sess
	return sess
}

// Lookup resolves a token to its session. The bool is false for an
// unknown or previously-invalidated token (spec.md §7: surfaces as a
// 401 ERROR_RESPONSE).
func (s *SessionStore) Lookup(token string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.byToken[token]
	return sess, ok
}

// Count returns the number of live sessions.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byToken)
}

// Remove destroys a session, e.g. on disconnect.
func (s *SessionStore) Remove(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byToken[token]
	if !ok {
		return
	}
	delete(s.byToken, token)
	if s.byUser[sess.UserName] == sess {
		delete(s.byUser, sess.UserName)
	}
}
