package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

// tokenExchangeTimeout bounds the code-for-token exchange and the
// userinfo fetch. Prevents hanging if Google is unresponsive.
const tokenExchangeTimeout = 10 * time.Second

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// UserInfo is the subset of Google's userinfo payload this service relies on
type UserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// TokenResult is the success side of a callback exchange, decoded once
// at this boundary. UserInfo is nil when the token response did not
// embed identity data and a separate FetchUserInfo call is needed.
type TokenResult struct {
	AccessToken string
	UserInfo    *UserInfo
}

// ProviderError carries an error reported by the provider itself, for
// example when the user denies consent. It is distinct from transport
// or exchange failures so callers can classify with errors.As.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Description)
	}
	return e.Code
}

// OAuthClient is the provider contract the auth flow depends on
type OAuthClient interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*TokenResult, error)
	FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
}

// GoogleOAuthClient implements OAuthClient using golang.org/x/oauth2
type GoogleOAuthClient struct {
	config *oauth2.Config
}

func NewGoogleOAuthClient(clientID, clientSecret, redirectURI string) *GoogleOAuthClient {
	return &GoogleOAuthClient{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     googleoauth.Endpoint,
		},
	}
}

func (c *GoogleOAuthClient) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for an access token. Google's
// token endpoint does not embed userinfo, so UserInfo is always nil
// here and the orchestrator follows up with FetchUserInfo.
func (c *GoogleOAuthClient) Exchange(ctx context.Context, code string) (*TokenResult, error) {
	ctx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()

	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	return &TokenResult{AccessToken: token.AccessToken}, nil
}

func (c *GoogleOAuthClient) FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}

	if info.Email == "" {
		return nil, fmt.Errorf("userinfo response is missing an email address")
	}

	return &info, nil
}
