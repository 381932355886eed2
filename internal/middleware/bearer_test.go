package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeVerifier accepts a single scripted token.
type fakeVerifier struct {
	valid  string
	userID int64
}

func (f *fakeVerifier) VerifyAccessToken(tokenString string) (int64, error) {
	if tokenString == f.valid {
		return f.userID, nil
	}
	return 0, errors.New("access token not valid")
}

func callWithAuth(t *testing.T, header string) (*httptest.ResponseRecorder, int64) {
	t.Helper()
	var gotUserID int64
	handler := BearerAuth(&fakeVerifier{valid: "good-token", userID: 7})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserID = GetUserIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, gotUserID
}

func TestBearerAuth_ValidToken(t *testing.T) {
	rec, userID := callWithAuth(t, "Bearer good-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), userID)
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	rec, _ := callWithAuth(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_MalformedHeader(t *testing.T) {
	rec, _ := callWithAuth(t, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_InvalidToken(t *testing.T) {
	rec, _ := callWithAuth(t, "Bearer expired-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserIDFromContext_Absent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, int64(0), GetUserIDFromContext(req.Context()))
}
