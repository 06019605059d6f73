// Package session holds the single source of truth for "who is logged in".
// The store owns at most one user record, mirrors it to a durable storage
// slot, and emits exactly one navigation signal per mutating operation.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/eduverse/lms/core"
	"github.com/eduverse/lms/core/user"
)

// recordVersion is bumped whenever the durable record layout changes.
// Records with an unknown version are treated as absent.
const recordVersion = 1

// Record is the durable form of the session: a flat key-value structure.
type Record struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      user.Role `json:"role"`
	Code      string    `json:"code,omitempty"`
}

func recordOf(usr user.User) Record {
	return Record{
		Version:   recordVersion,
		ID:        usr.ID,
		FirstName: usr.FirstName,
		LastName:  usr.LastName,
		Email:     usr.Email,
		Role:      usr.Role,
		Code:      usr.Code,
	}
}

func (r Record) user() user.User {
	return user.User{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Role:      r.Role,
		Code:      r.Code,
		IsActive:  true,
	}
}

type (
	// Navigator receives the navigation signal emitted after every mutating
	// store operation.
	Navigator interface {
		Navigate(path string)
	}

	NavigatorFunc func(path string)

	// Backend authenticates and registers accounts. user.Service satisfies
	// it; NewMockBackend provides the no-server variant that synthesizes
	// records the way the mock UI did.
	Backend interface {
		Authenticate(ctx context.Context, email, pwd string) (user.User, error)
		Register(ctx context.Context, reg user.Registration) (user.User, error)
	}

	Store struct {
		mu      sync.RWMutex
		current *user.User

		storage Storage
		nav     Navigator
		backend Backend
		logger  core.Logger
	}
)

func (f NavigatorFunc) Navigate(path string) { f(path) }

func NewStore(storage Storage, nav Navigator, backend Backend, logger core.Logger) *Store {
	return &Store{
		storage: storage,
		nav:     nav,
		backend: backend,
		logger:  logger,
	}
}

// Hydrate populates the session from durable storage. A missing, malformed
// or unknown-version record leaves the session empty; Hydrate never fails.
func (s *Store) Hydrate() {
	data, err := s.storage.Load()
	if err != nil {
		if err != ErrNoRecord && s.logger != nil {
			s.logger.Warn("session: discarding unreadable record", err)
		}
		return
	}

	var rec Record
	if err = json.Unmarshal(data, &rec); err != nil || rec.Version != recordVersion || !rec.Role.Valid() {
		if s.logger != nil {
			s.logger.Warn("session: discarding malformed record")
		}
		return
	}

	usr := rec.user()
	s.mu.Lock()
	s.current = &usr
	s.mu.Unlock()
}

// Current returns a copy of the logged-in user, if any. Callers must check
// ok before touching role-specific fields.
func (s *Store) Current() (user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return user.User{}, false
	}
	return *s.current, true
}

// Login authenticates, installs the resulting user as the current session,
// persists it and navigates to the role's landing route. On failure the
// session is left untouched and no navigation is signalled.
func (s *Store) Login(ctx context.Context, email, pwd string) (user.User, error) {
	usr, err := s.backend.Authenticate(ctx, email, pwd)
	if err != nil {
		return user.User{}, err
	}

	s.install(usr)
	s.nav.Navigate(usr.Role.LandingPath())
	return usr, nil
}

// Register creates the account, installs it and navigates to the role's
// landing route.
func (s *Store) Register(ctx context.Context, reg user.Registration) (user.User, error) {
	usr, err := s.backend.Register(ctx, reg)
	if err != nil {
		return user.User{}, err
	}

	s.install(usr)
	s.nav.Navigate(usr.Role.LandingPath())
	return usr, nil
}

// Logout clears the session and durable storage and navigates to the login
// route. Calling it with no session is a no-op apart from the navigation.
func (s *Store) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.storage.Clear(); err != nil && s.logger != nil {
		s.logger.Error("session: clearing storage", err)
	}
	s.nav.Navigate("/login")
}

func (s *Store) install(usr user.User) {
	s.mu.Lock()
	s.current = &usr
	s.mu.Unlock()

	data, err := json.Marshal(recordOf(usr))
	if err != nil {
		if s.logger != nil {
			s.logger.Error("session: encoding record", err)
		}
		return
	}
	if err = s.storage.Save(data); err != nil && s.logger != nil {
		s.logger.Error("session: persisting record", err)
	}
}
