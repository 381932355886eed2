// Package auth implements the session manager that coordinates login, logout
// and startup session resumption between the remote endpoint and the local
// session store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/ClaimKeeper/internal/models"
)

// ErrInvalidCredentials is the only error Login exposes for a rejected or
// failed attempt. The underlying cause is deliberately withheld so a caller
// cannot distinguish bad credentials from transport failures.
var ErrInvalidCredentials = errors.New("invalid credentials")

// State is the authentication state exposed to the UI layer.
type State int

const (
	// Unauthenticated means no valid session is held.
	Unauthenticated State = iota
	// Authenticating means a login call is in flight.
	Authenticating
	// Authenticated means tokens and a profile are held.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// SessionStore defines the persistence operations required by the manager.
type SessionStore interface {
	Tokens() (models.AuthTokens, bool)
	SaveTokens(models.AuthTokens) error
	SaveUser(models.User) error
	User() (*models.User, error)
	ClearAll() error
}

// LoginAPI issues the remote login call.
type LoginAPI interface {
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
}

// Manager owns the in-memory session state. It is the single writer of the
// cached current user; all reads return snapshots.
type Manager struct {
	mu       sync.RWMutex
	state    State
	user     *models.User
	onChange func(State)

	sessions SessionStore
	api      LoginAPI
	log      *zap.Logger
}

// NewManager constructs a Manager in the Unauthenticated state.
func NewManager(sessions SessionStore, api LoginAPI, log *zap.Logger) *Manager {
	return &Manager{
		state:    Unauthenticated,
		sessions: sessions,
		api:      api,
		log:      log,
	}
}

// OnStateChange registers a listener invoked after every state transition.
// Intended for the UI layer; at most one listener is held.
func (m *Manager) OnStateChange(fn func(State)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// State returns the current authentication state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsAuthenticated reports whether a valid session is currently held.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == Authenticated
}

// CurrentUser returns a snapshot of the cached user, if any.
func (m *Manager) CurrentUser() (models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return models.User{}, false
	}
	return *m.user, true
}

// CheckAuth resumes a stored session at startup. It returns true and adopts
// the stored user only if both tokens and a decodable profile are present.
// Storage errors are swallowed and read as "not authenticated"; startup must
// never fail on a corrupt store.
func (m *Manager) CheckAuth() bool {
	if _, ok := m.sessions.Tokens(); !ok {
		m.setSession(nil, Unauthenticated)
		return false
	}
	user, err := m.sessions.User()
	if err != nil {
		m.log.Warn("session check failed, treating as unauthenticated", zap.Error(err))
		m.setSession(nil, Unauthenticated)
		return false
	}
	if user == nil {
		m.setSession(nil, Unauthenticated)
		return false
	}

	m.setSession(user, Authenticated)
	return true
}

// Login performs the remote login call and, on success, persists the token
// pair and profile and adopts the user. Every failure surfaces as
// ErrInvalidCredentials except a local persistence error, which is returned
// as-is so the caller can tell the store is broken.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	m.setSession(nil, Authenticating)

	resp, err := m.api.Login(ctx, username, password)
	if err != nil {
		m.log.Debug("login call failed", zap.Error(err))
		m.setSession(nil, Unauthenticated)
		return ErrInvalidCredentials
	}

	user := models.User{
		ID:        resp.ID,
		Username:  resp.Username,
		Email:     resp.Email,
		FirstName: resp.FirstName,
		LastName:  resp.LastName,
		Role:      "Employee",
	}
	tokens := models.AuthTokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}

	if err := m.sessions.SaveTokens(tokens); err != nil {
		m.setSession(nil, Unauthenticated)
		return fmt.Errorf("persist tokens: %w", err)
	}
	if err := m.sessions.SaveUser(user); err != nil {
		m.setSession(nil, Unauthenticated)
		return fmt.Errorf("persist user: %w", err)
	}

	m.setSession(&user, Authenticated)
	m.log.Info("login successful", zap.String("username", user.Username))
	return nil
}

// Logout clears the session store, including the claims it shares the
// namespace with, and transitions to Unauthenticated. There is no server
// round-trip; logout is purely local.
func (m *Manager) Logout() error {
	err := m.sessions.ClearAll()
	m.setSession(nil, Unauthenticated)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// setSession swaps the cached user and state, then notifies the listener
// outside the lock.
func (m *Manager) setSession(user *models.User, state State) {
	m.mu.Lock()
	m.user = user
	m.state = state
	notify := m.onChange
	m.mu.Unlock()

	if notify != nil {
		notify(state)
	}
}
