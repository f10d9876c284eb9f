package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"prremind/clients/google"
	"prremind/config"
	"prremind/models"
	"prremind/models/api"
	"prremind/services"
	"prremind/sessions"
)

// callbackPath is where the frontend handles the post-login redirect
const callbackPath = "/auth/callback"

// ErrConfigMissing signals missing provider credentials. Surfaced as a
// server error before any provider call is attempted.
var ErrConfigMissing = errors.New("google oauth is not configured")

// ErrConfigInvalid signals a malformed redirect URI in configuration
var ErrConfigInvalid = errors.New("google redirect URI is malformed")

// CallbackParams carries the query parameters the provider sends back
type CallbackParams struct {
	Code             string
	Error            string
	ErrorDescription string
}

type AuthUseCase struct {
	oauthClient     google.OAuthClient
	googleConfig    config.GoogleConfig
	usersService    services.UsersService
	slackService    services.SlackConnectionsService
	issuer          *sessions.Issuer
	frontendBaseURL string
}

func NewAuthUseCase(
	oauthClient google.OAuthClient,
	googleConfig config.GoogleConfig,
	usersService services.UsersService,
	slackService services.SlackConnectionsService,
	issuer *sessions.Issuer,
	frontendBaseURL string,
) *AuthUseCase {
	return &AuthUseCase{
		oauthClient:     oauthClient,
		googleConfig:    googleConfig,
		usersService:    usersService,
		slackService:    slackService,
		issuer:          issuer,
		frontendBaseURL: frontendBaseURL,
	}
}

// Initiate builds the provider authorization URL. Configuration is
// checked before anything touches the network.
func (u *AuthUseCase) Initiate() (string, error) {
	log.Printf("📋 Starting Google OAuth login flow")

	if !u.googleConfig.IsConfigured() {
		log.Printf("❌ Google OAuth credentials are not configured")
		return "", ErrConfigMissing
	}
	if err := u.googleConfig.Validate(); err != nil {
		log.Printf("❌ Google OAuth configuration is invalid: %v", err)
		return "", fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	state := uuid.NewString()
	authURL := u.oauthClient.AuthCodeURL(state)

	log.Printf("📋 Completed successfully - built Google authorization URL")
	return authURL, nil
}

// HandleCallback runs the browser-driven callback flow. Every outcome is
// a frontend redirect URL, success or failure, so the browser always
// lands on a page that can render the result. The boolean reports
// whether the login actually succeeded.
func (u *AuthUseCase) HandleCallback(ctx context.Context, params CallbackParams) (string, bool) {
	log.Printf("📋 Starting to handle Google OAuth callback")

	if params.Error != "" {
		msg := params.Error
		if params.ErrorDescription != "" {
			msg = fmt.Sprintf("%s: %s", params.Error, params.ErrorDescription)
		}
		log.Printf("⚠️ Provider reported an error, skipping token exchange: %s", msg)
		return u.errorRedirect("Google sign-in was declined: " + msg), false
	}
	if params.Code == "" {
		return u.errorRedirect("Missing authorization code"), false
	}

	user, err := u.completeExchange(ctx, params.Code)
	if err != nil {
		log.Printf("❌ OAuth callback failed: %v", err)
		return u.errorRedirect("Authentication failed: " + publicMessage(err)), false
	}

	token, _, err := u.issuer.Issue(user.ID)
	if err != nil {
		log.Printf("❌ Failed to issue session token: %v", err)
		return u.errorRedirect("Authentication failed: could not create session"), false
	}

	slackConnected, slackTeam := u.slackPresence(ctx, user.ID)

	log.Printf("📋 Completed successfully - authenticated user: %s", user.ID)
	return u.successRedirect(token, user, slackConnected, slackTeam), true
}

// ExchangeForAPIClient is the non-redirect variant of HandleCallback for
// programmatic callers. Provider-reported errors come back as
// *google.ProviderError so the handler can map them to a client error;
// everything else is a server-side failure.
func (u *AuthUseCase) ExchangeForAPIClient(ctx context.Context, params CallbackParams) (*api.TokenResponse, error) {
	log.Printf("📋 Starting programmatic Google OAuth exchange")

	if params.Error != "" {
		return nil, &google.ProviderError{Code: params.Error, Description: params.ErrorDescription}
	}
	if params.Code == "" {
		return nil, &google.ProviderError{Code: "invalid_request", Description: "missing authorization code"}
	}

	user, err := u.completeExchange(ctx, params.Code)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := u.issuer.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	log.Printf("📋 Completed successfully - exchanged token for user: %s", user.ID)
	return &api.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        api.DomainUserToAPIUser(user),
	}, nil
}

// Refresh re-issues a session token for an already-validated principal
func (u *AuthUseCase) Refresh(user *models.User) (*api.TokenResponse, error) {
	log.Printf("📋 Starting to refresh session for user: %s", user.ID)

	token, expiresAt, err := u.issuer.Refresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh session token: %w", err)
	}

	log.Printf("📋 Completed successfully - refreshed session for user: %s", user.ID)
	return &api.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        api.DomainUserToAPIUser(user),
	}, nil
}

// completeExchange runs steps shared by both callback variants: code
// exchange, identity retrieval, and the user upsert.
func (u *AuthUseCase) completeExchange(ctx context.Context, code string) (*models.User, error) {
	if !u.googleConfig.IsConfigured() {
		return nil, ErrConfigMissing
	}

	result, err := u.oauthClient.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	info := result.UserInfo
	if info == nil {
		info, err = u.oauthClient.FetchUserInfo(ctx, result.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("identity retrieval failed: %w", err)
		}
	}

	user, err := u.usersService.ProcessOAuthUser(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("failed to process oauth user: %w", err)
	}

	return user, nil
}

func (u *AuthUseCase) slackPresence(ctx context.Context, userID uuid.UUID) (bool, string) {
	maybeConn, err := u.slackService.GetConnectionByUserID(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Could not check Slack connection for user %s: %v", userID, err)
		return false, ""
	}
	conn, ok := maybeConn.Get()
	if !ok {
		return false, ""
	}
	team := ""
	if conn.TeamName != nil {
		team = *conn.TeamName
	}
	return true, team
}

func (u *AuthUseCase) successRedirect(token string, user *models.User, slackConnected bool, slackTeam string) string {
	params := url.Values{}
	params.Set("success", "true")
	params.Set("token", token)
	params.Set("user_id", user.ID.String())
	params.Set("user_name", user.Name)
	params.Set("user_email", user.Email)
	if user.ProfileImage != nil {
		params.Set("profile_image", *user.ProfileImage)
	}
	params.Set("slack_connected", strconv.FormatBool(slackConnected))
	if slackTeam != "" {
		params.Set("slack_team", slackTeam)
	}
	return u.frontendBaseURL + callbackPath + "?" + params.Encode()
}

func (u *AuthUseCase) errorRedirect(message string) string {
	params := url.Values{}
	params.Set("error", message)
	params.Set("timestamp", strconv.FormatInt(time.Now().Unix(), 10))
	return u.frontendBaseURL + callbackPath + "?" + params.Encode()
}

// publicMessage strips wrapped internals down to the outermost
// description so provider details never leak verbatim to the browser.
func publicMessage(err error) string {
	var provErr *google.ProviderError
	if errors.As(err, &provErr) {
		return provErr.Error()
	}
	switch {
	case errors.Is(err, ErrConfigMissing):
		return "sign-in is not configured"
	default:
		return "could not complete sign-in with Google"
	}
}
