package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"prremind/appctx"
	"prremind/core"
	"prremind/models"
	"prremind/services/users"
	"prremind/sessions"
)

func testIssuer(t *testing.T) *sessions.Issuer {
	t.Helper()
	issuer, err := sessions.NewIssuer(strings.Repeat("k", 32), "HS256", 30*time.Minute)
	require.NoError(t, err)
	return issuer
}

func TestWithAuth_RejectionsAreUniform(t *testing.T) {
	issuer := testIssuer(t)
	mockUsers := new(users.MockUsersService)
	authMiddleware := NewSessionAuthMiddleware(mockUsers, issuer)

	expired, err := sessions.NewIssuer(strings.Repeat("k", 32), "HS256", time.Millisecond)
	require.NoError(t, err)
	expiredToken, _, err := expired.Issue(core.NewID())
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	tests := []struct {
		name       string
		authHeader string
	}{
		{name: "missing header", authHeader: ""},
		{name: "wrong scheme", authHeader: "Basic dXNlcjpwYXNz"},
		{name: "empty bearer token", authHeader: "Bearer "},
		{name: "malformed token", authHeader: "Bearer not-a-jwt"},
		{name: "expired token", authHeader: "Bearer " + expiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/prs", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			recorder := httptest.NewRecorder()

			called := false
			authMiddleware.WithAuth(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})(recorder, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.JSONEq(t, `{"error":"unauthenticated"}`, recorder.Body.String())
		})
	}
}

func TestWithAuth_UnknownUserIsUnauthenticated(t *testing.T) {
	issuer := testIssuer(t)
	userID := core.NewID()
	token, _, err := issuer.Issue(userID)
	require.NoError(t, err)

	mockUsers := new(users.MockUsersService)
	mockUsers.On("GetUserByID", mock.Anything, userID).Return(mo.None[*models.User](), nil)
	authMiddleware := NewSessionAuthMiddleware(mockUsers, issuer)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	authMiddleware.WithAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.JSONEq(t, `{"error":"unauthenticated"}`, recorder.Body.String())
	mockUsers.AssertExpectations(t)
}

func TestWithAuth_ValidTokenSetsContextUser(t *testing.T) {
	issuer := testIssuer(t)
	user := &models.User{ID: core.NewID(), Name: "Jamie", Email: "jamie@example.com"}
	token, _, err := issuer.Issue(user.ID)
	require.NoError(t, err)

	mockUsers := new(users.MockUsersService)
	mockUsers.On("GetUserByID", mock.Anything, user.ID).Return(mo.Some(user), nil)
	authMiddleware := NewSessionAuthMiddleware(mockUsers, issuer)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	authMiddleware.WithAuth(func(w http.ResponseWriter, r *http.Request) {
		ctxUser, ok := appctx.GetUser(r.Context())
		require.True(t, ok)
		assert.Equal(t, user.ID, ctxUser.ID)
		w.WriteHeader(http.StatusOK)
	})(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	mockUsers.AssertExpectations(t)
}
