package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/ClaimKeeper/internal/models"
)

// fakeSessions is an in-memory SessionStore.
type fakeSessions struct {
	tokens    *models.AuthTokens
	user      *models.User
	userErr   error
	saveErr   error
	clearErr  error
	clearedAt int
}

func (f *fakeSessions) Tokens() (models.AuthTokens, bool) {
	if f.tokens == nil {
		return models.AuthTokens{}, false
	}
	return *f.tokens, true
}

func (f *fakeSessions) SaveTokens(t models.AuthTokens) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.tokens = &t
	return nil
}

func (f *fakeSessions) SaveUser(u models.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.user = &u
	return nil
}

func (f *fakeSessions) User() (*models.User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func (f *fakeSessions) ClearAll() error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.tokens = nil
	f.user = nil
	f.clearedAt++
	return nil
}

// fakeAPI scripts the remote login call.
type fakeAPI struct {
	resp  *models.LoginResponse
	err   error
	calls int
}

func (f *fakeAPI) Login(_ context.Context, _, _ string) (*models.LoginResponse, error) {
	f.calls++
	return f.resp, f.err
}

var emilyLogin = &models.LoginResponse{
	ID:           1,
	Username:     "emilys",
	Email:        "emily.johnson@x.dummyjson.com",
	FirstName:    "Emily",
	LastName:     "Johnson",
	AccessToken:  "access-1",
	RefreshToken: "refresh-1",
}

func TestLogin_SuccessAdoptsUser(t *testing.T) {
	sessions := &fakeSessions{}
	m := NewManager(sessions, &fakeAPI{resp: emilyLogin}, zap.NewNop())

	var states []State
	m.OnStateChange(func(s State) { states = append(states, s) })

	require.NoError(t, m.Login(context.Background(), "emilys", "emilyspass"))

	assert.Equal(t, Authenticated, m.State())
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, []State{Authenticating, Authenticated}, states)

	user, ok := m.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "Emily", user.FirstName)
	assert.Equal(t, "Employee", user.Role)

	require.NotNil(t, sessions.tokens)
	assert.Equal(t, "access-1", sessions.tokens.AccessToken)
	require.NotNil(t, sessions.user)
	assert.Equal(t, "emilys", sessions.user.Username)
}

func TestLogin_FailureIsOpaque(t *testing.T) {
	m := NewManager(&fakeSessions{}, &fakeAPI{err: errors.New("connection refused: 10.0.0.1:443")}, zap.NewNop())

	err := m.Login(context.Background(), "emilys", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	// the transport detail must not leak
	assert.NotContains(t, err.Error(), "connection refused")

	assert.Equal(t, Unauthenticated, m.State())
	_, ok := m.CurrentUser()
	assert.False(t, ok)
}

func TestLogin_PersistFailureSurfaces(t *testing.T) {
	sessions := &fakeSessions{saveErr: errors.New("disk full")}
	m := NewManager(sessions, &fakeAPI{resp: emilyLogin}, zap.NewNop())

	err := m.Login(context.Background(), "emilys", "emilyspass")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, Unauthenticated, m.State())
}

func TestCheckAuth_ResumesStoredSession(t *testing.T) {
	sessions := &fakeSessions{
		tokens: &models.AuthTokens{AccessToken: "a", RefreshToken: "r"},
		user:   &models.User{ID: 1, Username: "emilys", FirstName: "Emily"},
	}
	m := NewManager(sessions, &fakeAPI{}, zap.NewNop())

	assert.True(t, m.CheckAuth())
	assert.Equal(t, Authenticated, m.State())
	user, ok := m.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "Emily", user.FirstName)
}

func TestCheckAuth_RequiresBothTokensAndUser(t *testing.T) {
	// tokens but no user
	m := NewManager(&fakeSessions{tokens: &models.AuthTokens{AccessToken: "a", RefreshToken: "r"}}, &fakeAPI{}, zap.NewNop())
	assert.False(t, m.CheckAuth())
	assert.Equal(t, Unauthenticated, m.State())

	// user but no tokens
	m = NewManager(&fakeSessions{user: &models.User{ID: 1}}, &fakeAPI{}, zap.NewNop())
	assert.False(t, m.CheckAuth())
}

func TestCheckAuth_SwallowsStorageErrors(t *testing.T) {
	sessions := &fakeSessions{
		tokens:  &models.AuthTokens{AccessToken: "a", RefreshToken: "r"},
		userErr: errors.New("corrupt user profile"),
	}
	m := NewManager(sessions, &fakeAPI{}, zap.NewNop())

	assert.False(t, m.CheckAuth(), "a corrupt store must read as unauthenticated, not crash")
	assert.Equal(t, Unauthenticated, m.State())
}

func TestLogout_ClearsEverythingLocally(t *testing.T) {
	sessions := &fakeSessions{
		tokens: &models.AuthTokens{AccessToken: "a", RefreshToken: "r"},
		user:   &models.User{ID: 1, Username: "emilys"},
	}
	m := NewManager(sessions, &fakeAPI{}, zap.NewNop())
	require.True(t, m.CheckAuth())

	var states []State
	m.OnStateChange(func(s State) { states = append(states, s) })

	require.NoError(t, m.Logout())
	assert.Equal(t, Unauthenticated, m.State())
	assert.Equal(t, []State{Unauthenticated}, states)
	assert.Equal(t, 1, sessions.clearedAt)
	_, ok := m.CurrentUser()
	assert.False(t, ok)
}

func TestLogout_SurfacesClearFailure(t *testing.T) {
	sessions := &fakeSessions{clearErr: errors.New("store gone")}
	m := NewManager(sessions, &fakeAPI{}, zap.NewNop())

	err := m.Logout()
	require.Error(t, err)
	// even on failure the in-memory session is dropped
	assert.Equal(t, Unauthenticated, m.State())
}
