// Package service provides the authentication business logic for the demo
// auth endpoint, delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/ClaimKeeper/internal/models"
	"github.com/atinyakov/ClaimKeeper/internal/repository"
	"github.com/atinyakov/ClaimKeeper/internal/sessionstore"
)

var (
	// ErrInvalidCredentials is returned for an unknown username or a wrong
	// password, indistinguishably.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRefreshToken is returned when a refresh token is malformed,
	// expired, or its session was revoked.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// AccountRepository defines the account lookups required by the service.
type AccountRepository interface {
	// ByUsername loads an account by login name.
	ByUsername(ctx context.Context, username string) (*models.Account, error)
	// ByID loads an account by ID.
	ByID(ctx context.Context, id int64) (*models.Account, error)
}

// SessionStore defines the refresh-session operations required by the service.
type SessionStore interface {
	Create(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error
	UserID(ctx context.Context, sessionID string) (int64, error)
	Extend(ctx context.Context, sessionID string, ttl time.Duration) error
}

// TokenManager defines the JWT operations required by the service.
type TokenManager interface {
	GenerateAccessToken(acc *models.Account, ttl time.Duration) (string, error)
	GenerateRefreshToken(sessionID string, ttl time.Duration) (string, error)
	VerifyRefreshToken(tokenString string) (string, error)
}

// AuthService implements login, refresh and profile lookups.
type AuthService struct {
	repo     AccountRepository
	sessions SessionStore
	tokens   TokenManager
	log      *zap.Logger

	// defaultAccessTTL applies when a request carries no expiresInMins.
	defaultAccessTTL time.Duration
	// refreshTTL is the refresh-session lifetime.
	refreshTTL time.Duration
}

// NewAuthService constructs an AuthService.
func NewAuthService(repo AccountRepository, sessions SessionStore, tokens TokenManager, defaultAccessTTL, refreshTTL time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{
		repo:             repo,
		sessions:         sessions,
		tokens:           tokens,
		log:              log,
		defaultAccessTTL: defaultAccessTTL,
		refreshTTL:       refreshTTL,
	}
}

// accessTTL resolves the requested access-token lifetime.
func (s *AuthService) accessTTL(expiresInMins int) time.Duration {
	if expiresInMins > 0 {
		return time.Duration(expiresInMins) * time.Minute
	}
	return s.defaultAccessTTL
}

// Login verifies the credentials and issues a token pair. An unknown
// username and a wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string, expiresInMins int) (*models.LoginResponse, error) {
	acc, err := s.repo.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	if bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	sessionID := uuid.NewString()
	if err := s.sessions.Create(ctx, sessionID, acc.ID, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}

	accessToken, err := s.tokens.GenerateAccessToken(acc, s.accessTTL(expiresInMins))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(sessionID, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	s.log.Info("issued token pair", zap.String("username", acc.Username), zap.String("session", sessionID))
	return &models.LoginResponse{
		ID:           acc.ID,
		Username:     acc.Username,
		Email:        acc.Email,
		FirstName:    acc.FirstName,
		LastName:     acc.LastName,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh validates a refresh token and re-issues the pair. The session ID
// is kept and its lifetime extended.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, expiresInMins int) (*models.AuthTokens, error) {
	sessionID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	userID, err := s.sessions.UserID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionstore.ErrSessionNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	acc, err := s.repo.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	accessToken, err := s.tokens.GenerateAccessToken(acc, s.accessTTL(expiresInMins))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	newRefreshToken, err := s.tokens.GenerateRefreshToken(sessionID, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	if err := s.sessions.Extend(ctx, sessionID, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("extend session: %w", err)
	}

	s.log.Debug("refreshed token pair", zap.String("session", sessionID))
	return &models.AuthTokens{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Profile returns the client-facing profile of the given user.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	acc, err := s.repo.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user := acc.User()
	return &user, nil
}
