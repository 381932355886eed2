package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/ClaimKeeper/internal/models"
)

// retryKey marks a request as the retry of a 401, so one original request
// triggers at most one refresh attempt. The marker is an explicit context
// value scoped to the single refresh-and-retry path; it is never shared
// across unrelated requests.
type retryKey struct{}

func withRetryMark(ctx context.Context) context.Context {
	return context.WithValue(ctx, retryKey{}, true)
}

func isRetry(ctx context.Context) bool {
	v, _ := ctx.Value(retryKey{}).(bool)
	return v
}

// authTransport decorates outbound requests with the bearer token read fresh
// from the session store at send time, and on a 401 performs one token
// refresh followed by one retry of the original request.
//
// Concurrent requests that each receive a 401 refresh independently; the last
// successful refresh wins in the session store. A failed refresh clears the
// whole session, forcing logout.
type authTransport struct {
	base     http.RoundTripper
	sessions SessionStore
	refresh  func(ctx context.Context, refreshToken string) (models.AuthTokens, error)
	log      *zap.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	send := req.Clone(req.Context())
	if tokens, ok := t.sessions.Tokens(); ok {
		send.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	}

	resp, err := t.base.RoundTrip(send)
	if err != nil || resp.StatusCode != http.StatusUnauthorized || isRetry(req.Context()) {
		return resp, err
	}
	drain(resp)

	tokens, ok := t.sessions.Tokens()
	if !ok {
		t.forceLogout()
		return nil, fmt.Errorf("%w: no refresh token stored", ErrRefreshFailed)
	}

	t.log.Debug("received 401, refreshing token", zap.String("url", req.URL.Path))
	fresh, refreshErr := t.refresh(req.Context(), tokens.RefreshToken)
	if refreshErr != nil {
		t.forceLogout()
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, refreshErr)
	}
	if err := t.sessions.SaveTokens(fresh); err != nil {
		return nil, fmt.Errorf("persist refreshed tokens: %w", err)
	}

	retry := req.Clone(withRetryMark(req.Context()))
	retry.Header.Set("Authorization", "Bearer "+fresh.AccessToken)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("replay request body: %w", err)
		}
		retry.Body = body
	}
	return t.base.RoundTrip(retry)
}

// forceLogout clears the whole session store after an unrecoverable 401.
func (t *authTransport) forceLogout() {
	if err := t.sessions.ClearAll(); err != nil {
		t.log.Error("failed to clear session after refresh failure", zap.Error(err))
	}
}

// drain discards and closes an abandoned response body so the underlying
// connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
