package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atinyakov/ClaimKeeper/internal/models"
)

// Keys owned by the session and claims views. No key is shared between them.
const (
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
	keyUser         = "user"
	keyClaims       = "claims"
)

// ErrCorruptProfile is returned when a stored user profile is present but
// cannot be decoded. It is surfaced, never silently defaulted, so a corrupt
// profile cannot produce a half-authenticated state.
var ErrCorruptProfile = errors.New("corrupt user profile")

// SessionStore is the typed view over the local store that owns the
// authentication tokens and the current user profile.
type SessionStore struct {
	kv *LocalStore
}

// NewSessionStore constructs a SessionStore over the given local store.
func NewSessionStore(kv *LocalStore) *SessionStore {
	return &SessionStore{kv: kv}
}

// SaveTokens writes both token strings, overwriting any prior values.
// The two writes are not atomic; Tokens guards against partial states.
func (s *SessionStore) SaveTokens(t models.AuthTokens) error {
	if err := s.kv.Set(keyAccessToken, t.AccessToken); err != nil {
		return err
	}
	return s.kv.Set(keyRefreshToken, t.RefreshToken)
}

// Tokens returns the stored pair only if both keys are present and non-empty.
// A partial write reads as absent.
func (s *SessionStore) Tokens() (models.AuthTokens, bool) {
	access, okA := s.kv.Get(keyAccessToken)
	refresh, okR := s.kv.Get(keyRefreshToken)
	if !okA || !okR || access == "" || refresh == "" {
		return models.AuthTokens{}, false
	}
	return models.AuthTokens{AccessToken: access, RefreshToken: refresh}, true
}

// SaveUser serializes and stores the user profile.
func (s *SessionStore) SaveUser(u models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.kv.Set(keyUser, string(raw))
}

// User returns the stored profile, or nil if none is stored.
// Undecodable stored bytes yield ErrCorruptProfile.
func (s *SessionStore) User() (*models.User, error) {
	raw, ok := s.kv.Get(keyUser)
	if !ok {
		return nil, nil
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptProfile, err)
	}
	return &u, nil
}

// ClearAll erases every key owned by the session and claims views.
// Used on logout and on forced logout after a failed token refresh.
func (s *SessionStore) ClearAll() error {
	return s.kv.ClearAll()
}

// RemoveTokens deletes only the two token keys, forcing re-authentication
// without discarding the stored profile or claims.
func (s *SessionStore) RemoveTokens() error {
	if err := s.kv.Delete(keyAccessToken); err != nil {
		return err
	}
	return s.kv.Delete(keyRefreshToken)
}
