package auth

import (
	"fmt"
	"sync"
)

// firstUserID is the id assigned to the first user ever created
// (the built-in admin), matching scenario S1's literal user_id=1001.
const firstUserID = 1001

// Store is the process-wide, mutex-guarded identity store, per
// spec.md §5 ("process-wide mutable state ... shared, mutated under a
// lock").
type Store struct {
	mu     sync.RWMutex
	users  map[string]*User
	nextID uint32
}

// NewStore returns a Store seeded with the built-in admin user, hashed
// with adminPassword (spec.md §6: "initializes the user store,
// creating the default admin user if absent").
func NewStore(adminPassword string) (*Store, error) {
	s := &Store{users: make(map[string]*User), nextID: firstUserID - 1}
	if err := s.CreateUser(AdminUsername, adminPassword, fullPermissionSet()); err != nil {
		return nil, err
	}
	return s, nil
}

// CreateUser adds a new user with the given password and permission
// set. It is idempotent-unfriendly by design: creating an existing
// name overwrites it, which is how NewStore seeds admin without first
// checking for its absence on every call.
func (s *Store) CreateUser(name, password string, perms []Permission) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.users[name] = &User{ID: s.nextID, Name: name, PasswordHash: hash, Permissions: perms}
	return nil
}

// Authenticate returns the user matching (username, password), or an
// error if the user is unknown or the password is wrong. Per spec.md
// §4.4 both cases must be indistinguishable to the caller.
func (s *Store) Authenticate(username, password string) (*User, error) {
	s.mu.RLock()
	u, ok := s.users[username]
	s.mu.RUnlock()
	if !ok || !u.CheckPassword(password) {
		return nil, fmt.Errorf("%w: invalid username or password", ErrAuthentication)
	}
	return u, nil
}

// User returns the named user, if any.
func (s *Store) User(name string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[name]
	return u, ok
}
