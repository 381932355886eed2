// Package http provides the HTTP handlers for the demo auth endpoints:
// login, token refresh and profile lookup.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/ClaimKeeper/internal/middleware"
	"github.com/atinyakov/ClaimKeeper/internal/models"
	"github.com/atinyakov/ClaimKeeper/internal/repository"
	"github.com/atinyakov/ClaimKeeper/internal/service"
)

// AuthService defines the interface for authentication operations required
// by the HTTP handlers.
type AuthService interface {
	// Login verifies credentials and issues a token pair.
	Login(ctx context.Context, username, password string, expiresInMins int) (*models.LoginResponse, error)
	// Refresh validates a refresh token and re-issues the pair.
	Refresh(ctx context.Context, refreshToken string, expiresInMins int) (*models.AuthTokens, error)
	// Profile returns the profile of the given user.
	Profile(ctx context.Context, userID int64) (*models.User, error)
}

// AuthHandler handles HTTP requests for login, refresh and profile.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// LoginRequest represents the JSON payload for the login endpoint.
type LoginRequest struct {
	// Username is the login name.
	Username string `json:"username"`
	// Password is the plaintext password.
	Password string `json:"password"`
	// ExpiresInMins is the requested access-token lifetime; optional.
	ExpiresInMins int `json:"expiresInMins"`
}

// RefreshRequest represents the JSON payload for the refresh endpoint.
type RefreshRequest struct {
	// RefreshToken is the refresh credential from a previous login or refresh.
	RefreshToken string `json:"refreshToken"`
	// ExpiresInMins is the requested access-token lifetime; optional.
	ExpiresInMins int `json:"expiresInMins"`
}

// Login handles login requests. It expects a JSON body with non-empty
// username and password. A rejected login returns 400 with an opaque message
// regardless of whether the username exists.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	resp, err := h.AuthService.Login(r.Context(), req.Username, req.Password, req.ExpiresInMins)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeMessage(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Refresh handles token refresh requests. An invalid, expired or revoked
// refresh token returns 401.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	tokens, err := h.AuthService.Refresh(r.Context(), req.RefreshToken, req.ExpiresInMins)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			writeMessage(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

// Me returns the profile of the authenticated user. The bearer middleware
// has already verified the token and stored the user ID in the context.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == 0 {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.AuthService.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			writeMessage(w, http.StatusNotFound, "user not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeMessage writes a JSON error body of the form {"message": ...}.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
