package slackconnections

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	slackclient "prremind/clients/slack"
	"prremind/config"
	"prremind/core"
)

func configuredSlack() config.SlackConfig {
	return config.SlackConfig{
		ClientID:     "slack-client-id",
		ClientSecret: "slack-client-secret",
		RedirectURI:  "https://example.com/api/v1/auth/slack/callback",
	}
}

func TestLinkAccount_Unconfigured(t *testing.T) {
	service := NewSlackConnectionsService(nil, &slackclient.MockSlackClient{}, config.SlackConfig{})

	_, err := service.LinkAccount(context.Background(), core.NewID(), "some-code")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestLinkAccount_EmptyCode(t *testing.T) {
	service := NewSlackConnectionsService(nil, &slackclient.MockSlackClient{}, configuredSlack())

	_, err := service.LinkAccount(context.Background(), core.NewID(), "")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "code cannot be empty")
}

func TestLinkAccount_ExchangeFailure(t *testing.T) {
	mockClient := &slackclient.MockSlackClient{
		MockGetOAuthV2Response: func(
			httpClient *http.Client,
			clientID, clientSecret, code, redirectURL string,
		) (*slackclient.OAuthV2Response, error) {
			return nil, fmt.Errorf("invalid_code")
		},
	}
	service := NewSlackConnectionsService(nil, mockClient, configuredSlack())

	_, err := service.LinkAccount(context.Background(), core.NewID(), "bad-code")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to exchange slack oauth code")
}

func TestLinkAccount_MissingResponseFields(t *testing.T) {
	mockClient := &slackclient.MockSlackClient{
		MockGetOAuthV2Response: func(
			httpClient *http.Client,
			clientID, clientSecret, code, redirectURL string,
		) (*slackclient.OAuthV2Response, error) {
			return &slackclient.OAuthV2Response{TeamID: "T123"}, nil
		},
	}
	service := NewSlackConnectionsService(nil, mockClient, configuredSlack())

	_, err := service.LinkAccount(context.Background(), core.NewID(), "some-code")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing required fields")
}
