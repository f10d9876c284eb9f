package slack

import (
	"context"
	"fmt"
	"net/http"

	"github.com/slack-go/slack"
)

// OAuthV2Response carries the fields of Slack's oauth.v2.access
// response this service relies on
type OAuthV2Response struct {
	TeamID           string
	TeamName         string
	AccessToken      string
	AuthedUserID     string
	AuthedUserScopes string
}

// Message is a channel-agnostic notification message. Blocks are only
// honored by the Slack sender; other channels fall back to Text.
type Message struct {
	Text   string
	Blocks []slack.Block
}

// SlackClient is the surface of the Slack Web API used by this service
type SlackClient interface {
	GetOAuthV2Response(
		httpClient *http.Client,
		clientID, clientSecret, code, redirectURL string,
	) (*OAuthV2Response, error)
	PostMessageContext(ctx context.Context, token, channelID string, msg Message) error
	AuthTestContext(ctx context.Context, token string) error
}

// Client implements SlackClient using the slack-go/slack SDK. Tokens
// are per-user (stored on SlackConnection), so they are passed per
// call rather than bound at construction.
type Client struct{}

func NewSlackClient() *Client {
	return &Client{}
}

// GetOAuthV2Response exchanges an OAuth authorization code for access tokens
func (c *Client) GetOAuthV2Response(
	httpClient *http.Client,
	clientID, clientSecret, code, redirectURL string,
) (*OAuthV2Response, error) {
	resp, err := slack.GetOAuthV2Response(httpClient, clientID, clientSecret, code, redirectURL)
	if err != nil {
		return nil, fmt.Errorf("slack oauth exchange failed: %w", err)
	}

	return &OAuthV2Response{
		TeamID:           resp.Team.ID,
		TeamName:         resp.Team.Name,
		AccessToken:      resp.AccessToken,
		AuthedUserID:     resp.AuthedUser.ID,
		AuthedUserScopes: resp.AuthedUser.Scope,
	}, nil
}

// PostMessageContext sends a message to a Slack channel or user DM
func (c *Client) PostMessageContext(ctx context.Context, token, channelID string, msg Message) error {
	api := slack.New(token)

	options := []slack.MsgOption{slack.MsgOptionText(msg.Text, false)}
	if len(msg.Blocks) > 0 {
		options = append(options, slack.MsgOptionBlocks(msg.Blocks...))
	}

	if _, _, err := api.PostMessageContext(ctx, channelID, options...); err != nil {
		return fmt.Errorf("failed to post slack message: %w", err)
	}

	return nil
}

// AuthTestContext verifies that a stored token is still valid
func (c *Client) AuthTestContext(ctx context.Context, token string) error {
	api := slack.New(token)

	if _, err := api.AuthTestContext(ctx); err != nil {
		return fmt.Errorf("slack auth test failed: %w", err)
	}

	return nil
}
