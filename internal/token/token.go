// Package token issues and verifies the HS256 JWT pairs handed out by the
// demo auth endpoint.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/atinyakov/ClaimKeeper/internal/models"
)

var (
	// ErrInvalidAccessToken is returned when an access token fails verification.
	ErrInvalidAccessToken = errors.New("access token not valid")
	// ErrInvalidRefreshToken is returned when a refresh token fails verification.
	ErrInvalidRefreshToken = errors.New("refresh token not valid")
)

// NowFunc returns the current time. Overridable in tests.
var NowFunc = time.Now

// Manager signs and verifies access and refresh tokens. Access tokens carry
// the user identity; refresh tokens carry only a session ID that the session
// store resolves back to a user.
type Manager struct {
	accessSecret  string
	refreshSecret string
}

// NewManager constructs a Manager with the two signing secrets.
func NewManager(accessSecret, refreshSecret string) *Manager {
	return &Manager{accessSecret: accessSecret, refreshSecret: refreshSecret}
}

// GenerateAccessToken signs an access token for the account with the given
// lifetime.
func (m *Manager) GenerateAccessToken(acc *models.Account, ttl time.Duration) (string, error) {
	now := NowFunc()
	claims := jwt.MapClaims{
		"uid":      acc.ID,
		"username": acc.Username,
		"email":    acc.Email,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
		"jti":      uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.accessSecret))
}

// GenerateRefreshToken signs a refresh token bound to a session ID.
func (m *Manager) GenerateRefreshToken(sessionID string, ttl time.Duration) (string, error) {
	now := NowFunc()
	claims := jwt.MapClaims{
		"session": sessionID,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.refreshSecret))
}

// VerifyAccessToken validates the signature and expiry of an access token and
// returns the user ID it carries.
func (m *Manager) VerifyAccessToken(tokenString string) (int64, error) {
	claims, err := m.verify(tokenString, m.accessSecret)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidAccessToken, err)
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return 0, ErrInvalidAccessToken
	}
	return int64(uid), nil
}

// VerifyRefreshToken validates the signature and expiry of a refresh token
// and returns the session ID it carries.
func (m *Manager) VerifyRefreshToken(tokenString string) (string, error) {
	claims, err := m.verify(tokenString, m.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}
	session, ok := claims["session"].(string)
	if !ok || session == "" {
		return "", ErrInvalidRefreshToken
	}
	return session, nil
}

func (m *Manager) verify(tokenString, secret string) (jwt.MapClaims, error) {
	if tokenString == "" {
		return nil, errors.New("token is empty")
	}

	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(func() time.Time { return NowFunc() }))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
