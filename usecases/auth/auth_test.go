package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"prremind/clients/google"
	"prremind/config"
	"prremind/core"
	"prremind/models"
	"prremind/services/slackconnections"
	"prremind/services/users"
	"prremind/sessions"
)

const frontendBaseURL = "https://app.example.com"

var testSigningSecret = strings.Repeat("s", 32)

func configuredGoogle() config.GoogleConfig {
	return config.GoogleConfig{
		ClientID:     "google-client-id",
		ClientSecret: "google-client-secret",
		RedirectURI:  "https://api.example.com/google/callback",
	}
}

func testIssuer(t *testing.T) *sessions.Issuer {
	t.Helper()
	issuer, err := sessions.NewIssuer(testSigningSecret, "HS256", 30*time.Minute)
	require.NoError(t, err)
	return issuer
}

func testUser() *models.User {
	image := "https://lh3.googleusercontent.com/a/photo.jpg"
	return &models.User{
		ID:           core.NewID(),
		Name:         "Jamie Rivera",
		Email:        "jamie@example.com",
		ProfileImage: &image,
	}
}

func newTestUseCase(
	t *testing.T,
	oauthClient google.OAuthClient,
	googleConfig config.GoogleConfig,
	usersService *users.MockUsersService,
	slackService *slackconnections.MockSlackConnectionsService,
) *AuthUseCase {
	t.Helper()
	return NewAuthUseCase(oauthClient, googleConfig, usersService, slackService, testIssuer(t), frontendBaseURL)
}

func redirectQuery(t *testing.T, redirect string) url.Values {
	t.Helper()
	parsed, err := url.Parse(redirect)
	require.NoError(t, err)
	return parsed.Query()
}

func TestInitiate_MissingConfig(t *testing.T) {
	useCase := newTestUseCase(t, google.NewMockOAuthClient(), config.GoogleConfig{}, nil, nil)

	_, err := useCase.Initiate()

	assert.ErrorIs(t, err, ErrConfigMissing)
}

func TestInitiate_MalformedRedirectURI(t *testing.T) {
	cfg := configuredGoogle()
	cfg.RedirectURI = "not a url"
	useCase := newTestUseCase(t, google.NewMockOAuthClient(), cfg, nil, nil)

	_, err := useCase.Initiate()

	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestInitiate_BuildsAuthorizationURL(t *testing.T) {
	var capturedState string
	mockClient := &google.MockOAuthClient{
		MockAuthCodeURL: func(state string) string {
			capturedState = state
			return "https://accounts.google.com/o/oauth2/auth?state=" + state
		},
	}
	useCase := newTestUseCase(t, mockClient, configuredGoogle(), nil, nil)

	authURL, err := useCase.Initiate()

	require.NoError(t, err)
	assert.Contains(t, authURL, "accounts.google.com")
	assert.NotEmpty(t, capturedState)
}

func TestHandleCallback_ProviderErrorSkipsExchange(t *testing.T) {
	mockClient := google.NewMockOAuthClient()
	useCase := newTestUseCase(t, mockClient, configuredGoogle(), nil, nil)

	redirect, loggedIn := useCase.HandleCallback(context.Background(), CallbackParams{
		Error:            "access_denied",
		ErrorDescription: "user declined consent",
	})

	assert.False(t, loggedIn)
	query := redirectQuery(t, redirect)
	assert.Contains(t, query.Get("error"), "access_denied")
	assert.NotEmpty(t, query.Get("timestamp"))
	assert.Equal(t, 0, mockClient.ExchangeCalls)
	assert.Equal(t, 0, mockClient.FetchUserInfoCalls)
}

func TestHandleCallback_ExchangeFailureRedirectsWithError(t *testing.T) {
	mockClient := &google.MockOAuthClient{
		MockExchange: func(ctx context.Context, code string) (*google.TokenResult, error) {
			return nil, fmt.Errorf("invalid_grant: code expired")
		},
	}
	useCase := newTestUseCase(t, mockClient, configuredGoogle(), nil, nil)

	redirect, loggedIn := useCase.HandleCallback(context.Background(), CallbackParams{Code: "expired-code"})

	assert.False(t, loggedIn)
	query := redirectQuery(t, redirect)
	assert.Contains(t, query.Get("error"), "Authentication failed")
	// raw provider detail stays in the logs, not the browser
	assert.NotContains(t, query.Get("error"), "invalid_grant")
	assert.NotEmpty(t, query.Get("timestamp"))
}

func TestHandleCallback_Success(t *testing.T) {
	user := testUser()
	team := "Acme Eng"

	mockClient := &google.MockOAuthClient{
		MockExchange: func(ctx context.Context, code string) (*google.TokenResult, error) {
			return &google.TokenResult{AccessToken: "ya29.secret"}, nil
		},
		MockFetchUserInfo: func(ctx context.Context, accessToken string) (*google.UserInfo, error) {
			return &google.UserInfo{ID: "g-1", Email: user.Email, Name: user.Name, Picture: *user.ProfileImage}, nil
		},
	}
	mockUsers := new(users.MockUsersService)
	mockUsers.On("ProcessOAuthUser", mock.Anything, mock.Anything).Return(user, nil)
	mockSlack := new(slackconnections.MockSlackConnectionsService)
	mockSlack.On("GetConnectionByUserID", mock.Anything, user.ID).
		Return(mo.Some(&models.SlackConnection{UserID: user.ID, TeamName: &team}), nil)

	useCase := newTestUseCase(t, mockClient, configuredGoogle(), mockUsers, mockSlack)

	redirect, loggedIn := useCase.HandleCallback(context.Background(), CallbackParams{Code: "valid-code"})

	assert.True(t, loggedIn)

	query := redirectQuery(t, redirect)
	assert.Equal(t, "true", query.Get("success"))
	assert.Equal(t, user.ID.String(), query.Get("user_id"))
	assert.Equal(t, user.Name, query.Get("user_name"))
	assert.Equal(t, user.Email, query.Get("user_email"))
	assert.Equal(t, *user.ProfileImage, query.Get("profile_image"))
	assert.Equal(t, "true", query.Get("slack_connected"))
	assert.Equal(t, team, query.Get("slack_team"))
	// the session token is present, the google access token never is
	assert.NotEmpty(t, query.Get("token"))
	assert.NotContains(t, redirect, "ya29.secret")

	issuer := testIssuer(t)
	subject, err := issuer.Validate(query.Get("token"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)

	mockUsers.AssertExpectations(t)
	mockSlack.AssertExpectations(t)
}

func TestHandleCallback_NoSlackConnection(t *testing.T) {
	user := testUser()

	mockClient := &google.MockOAuthClient{
		MockExchange: func(ctx context.Context, code string) (*google.TokenResult, error) {
			return &google.TokenResult{
				AccessToken: "ya29.secret",
				UserInfo:    &google.UserInfo{ID: "g-1", Email: user.Email, Name: user.Name},
			}, nil
		},
	}
	mockUsers := new(users.MockUsersService)
	mockUsers.On("ProcessOAuthUser", mock.Anything, mock.Anything).Return(user, nil)
	mockSlack := new(slackconnections.MockSlackConnectionsService)
	mockSlack.On("GetConnectionByUserID", mock.Anything, user.ID).
		Return(mo.None[*models.SlackConnection](), nil)

	useCase := newTestUseCase(t, mockClient, configuredGoogle(), mockUsers, mockSlack)

	redirect, loggedIn := useCase.HandleCallback(context.Background(), CallbackParams{Code: "valid-code"})

	assert.True(t, loggedIn)

	query := redirectQuery(t, redirect)
	assert.Equal(t, "true", query.Get("success"))
	assert.Equal(t, "false", query.Get("slack_connected"))
	assert.Empty(t, query.Get("slack_team"))
	// userinfo came embedded in the token result, no second fetch
	assert.Equal(t, 0, mockClient.FetchUserInfoCalls)
}

func TestExchangeForAPIClient_ProviderError(t *testing.T) {
	useCase := newTestUseCase(t, google.NewMockOAuthClient(), configuredGoogle(), nil, nil)

	_, err := useCase.ExchangeForAPIClient(context.Background(), CallbackParams{Error: "access_denied"})

	var provErr *google.ProviderError
	assert.ErrorAs(t, err, &provErr)
	assert.Equal(t, "access_denied", provErr.Code)
}

func TestExchangeForAPIClient_Success(t *testing.T) {
	user := testUser()

	mockClient := &google.MockOAuthClient{
		MockExchange: func(ctx context.Context, code string) (*google.TokenResult, error) {
			return &google.TokenResult{
				AccessToken: "ya29.secret",
				UserInfo:    &google.UserInfo{ID: "g-1", Email: user.Email, Name: user.Name},
			}, nil
		},
	}
	mockUsers := new(users.MockUsersService)
	mockUsers.On("ProcessOAuthUser", mock.Anything, mock.Anything).Return(user, nil)

	useCase := newTestUseCase(t, mockClient, configuredGoogle(), mockUsers, nil)

	resp, err := useCase.ExchangeForAPIClient(context.Background(), CallbackParams{Code: "valid-code"})

	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, user.Email, resp.User.Email)
	assert.NotEqual(t, "ya29.secret", resp.AccessToken)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
}

func TestRefresh_IssuesFreshToken(t *testing.T) {
	user := testUser()
	useCase := newTestUseCase(t, google.NewMockOAuthClient(), configuredGoogle(), nil, nil)

	resp, err := useCase.Refresh(user)

	require.NoError(t, err)
	issuer := testIssuer(t)
	subject, err := issuer.Validate(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}
