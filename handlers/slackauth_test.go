package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"prremind/config"
	"prremind/core"
	"prremind/models"
	"prremind/services/slackconnections"
)

func testSlackConfig() config.SlackConfig {
	return config.SlackConfig{
		ClientID:     "slack-client-id",
		ClientSecret: "slack-client-secret",
		RedirectURI:  "https://api.example.com/api/v1/auth/slack/callback",
	}
}

func TestHandleSlackCallback_InvalidState(t *testing.T) {
	mockService := new(slackconnections.MockSlackConnectionsService)
	handler := NewSlackAuthHandler(mockService, testSlackConfig(), testFrontendURL)

	tests := []struct {
		name  string
		state string
	}{
		{name: "missing state", state: ""},
		{name: "wrong prefix", state: "session_12345"},
		{name: "invalid user id", state: "user_not-a-uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/api/v1/auth/slack/callback?code=xyz"
			if tt.state != "" {
				target += "&state=" + tt.state
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			recorder := httptest.NewRecorder()

			handler.HandleCallback(recorder, req)

			assert.Equal(t, http.StatusFound, recorder.Code)
			location, err := url.Parse(recorder.Header().Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, "false", location.Query().Get("slack_success"))
			assert.Contains(t, location.Query().Get("slack_error"), "Invalid state")
			mockService.AssertNotCalled(t, "LinkAccount")
		})
	}
}

func TestHandleSlackCallback_LinksAccount(t *testing.T) {
	userID := core.NewID()
	team := "Acme Eng"
	conn := &models.SlackConnection{
		ID:          core.NewID(),
		UserID:      userID,
		SlackUserID: "U123",
		SlackTeamID: "T123",
		TeamName:    &team,
	}
	mockService := new(slackconnections.MockSlackConnectionsService)
	mockService.On("LinkAccount", mock.Anything, userID, "auth-code").Return(conn, nil)

	handler := NewSlackAuthHandler(mockService, testSlackConfig(), testFrontendURL)

	target := fmt.Sprintf("/api/v1/auth/slack/callback?code=auth-code&state=user_%s", userID)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	recorder := httptest.NewRecorder()

	handler.HandleCallback(recorder, req)

	assert.Equal(t, http.StatusFound, recorder.Code)
	location, err := url.Parse(recorder.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "true", location.Query().Get("slack_success"))
	assert.Equal(t, team, location.Query().Get("slack_team"))
	// the workspace token is never part of the redirect
	assert.NotContains(t, recorder.Header().Get("Location"), "xoxp")
	mockService.AssertExpectations(t)
}

func TestHandleSlackCallback_ProviderError(t *testing.T) {
	mockService := new(slackconnections.MockSlackConnectionsService)
	handler := NewSlackAuthHandler(mockService, testSlackConfig(), testFrontendURL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/slack/callback?error=access_denied", nil)
	recorder := httptest.NewRecorder()

	handler.HandleCallback(recorder, req)

	assert.Equal(t, http.StatusFound, recorder.Code)
	location, err := url.Parse(recorder.Header().Get("Location"))
	require.NoError(t, err)
	assert.Contains(t, location.Query().Get("slack_error"), "access_denied")
	mockService.AssertNotCalled(t, "LinkAccount")
}
