// Package api implements the outbound HTTP client for the remote auth
// endpoints, including bearer injection and the single 401 refresh-and-retry.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/ClaimKeeper/internal/models"
)

const (
	loginPath   = "/auth/login"
	refreshPath = "/auth/refresh"
	mePath      = "/auth/me"

	// tokenExpiryMins is sent with login and refresh requests.
	tokenExpiryMins = 30

	// DefaultTimeout is the fixed ceiling applied to every outbound call.
	DefaultTimeout = 10 * time.Second
)

// ErrRefreshFailed is returned when a 401 could not be recovered: the refresh
// endpoint rejected the refresh token, was unreachable, or no refresh token
// was stored. The local session has been cleared by the time it is returned.
var ErrRefreshFailed = errors.New("token refresh failed")

// StatusError reports a non-2xx response from the remote endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// SessionStore is the slice of the session persistence layer the client needs:
// reading tokens at send time, persisting refreshed pairs, and clearing the
// session when a refresh fails.
type SessionStore interface {
	Tokens() (models.AuthTokens, bool)
	SaveTokens(models.AuthTokens) error
	ClearAll() error
}

// Config holds the client construction parameters.
type Config struct {
	// BaseURL is the remote endpoint root, e.g. "https://dummyjson.com".
	BaseURL string
	// Timeout overrides DefaultTimeout when non-zero.
	Timeout time.Duration
}

// Client talks to the remote auth endpoints. Authorized calls go through the
// refresh interceptor; the login and refresh calls themselves do not.
type Client struct {
	baseURL  string
	http     *http.Client
	bare     *http.Client
	sessions SessionStore
	log      *zap.Logger
}

// New constructs a Client over the given session store.
func New(cfg Config, sessions SessionStore, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:  cfg.BaseURL,
		bare:     &http.Client{Timeout: timeout},
		sessions: sessions,
		log:      log,
	}
	c.http = &http.Client{
		Timeout: timeout,
		Transport: &authTransport{
			base:     http.DefaultTransport,
			sessions: sessions,
			refresh:  c.Refresh,
			log:      log,
		},
	}
	return c
}

// Login exchanges credentials for a token pair and profile. Any non-2xx
// response is returned as a StatusError; nothing is persisted here.
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	payload := map[string]any{
		"username":      username,
		"password":      password,
		"expiresInMins": tokenExpiryMins,
	}
	var resp models.LoginResponse
	if err := c.postJSON(ctx, c.http, loginPath, payload, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &resp, nil
}

// Refresh exchanges a refresh token for a new token pair. It calls the
// endpoint directly, bypassing the interceptor, and does not persist the
// result; the interceptor and the session manager own persistence.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (models.AuthTokens, error) {
	payload := map[string]any{
		"refreshToken":  refreshToken,
		"expiresInMins": tokenExpiryMins,
	}
	var tokens models.AuthTokens
	if err := c.postJSON(ctx, c.bare, refreshPath, payload, &tokens); err != nil {
		return models.AuthTokens{}, fmt.Errorf("refresh: %w", err)
	}
	return tokens, nil
}

// Me fetches the profile of the currently authorized user. The request goes
// through the interceptor, so an expired access token is refreshed and the
// call retried once before this returns.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+mePath, nil)
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("me: %w", &StatusError{Code: resp.StatusCode})
	}
	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("me: decode response: %w", err)
	}
	return &user, nil
}

// postJSON sends payload to baseURL+path via client and decodes a 2xx body
// into out.
func (c *Client) postJSON(ctx context.Context, client *http.Client, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
