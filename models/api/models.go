package api

import (
	"time"

	"github.com/google/uuid"
)

// UserModel represents the user data returned by the API
type UserModel struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProfileImage *string   `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TokenResponse is the payload returned by the programmatic token
// endpoints. The access token here is our own session JWT, never a
// provider token.
type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	User        *UserModel `json:"user"`
}

// SlackConnectionModel represents a Slack connection without its token
type SlackConnectionModel struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	SlackUserID string    `json:"slack_user_id"`
	SlackTeamID string    `json:"slack_team_id"`
	TeamName    *string   `json:"team_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ErrorResponse is the standard JSON error body
type ErrorResponse struct {
	Error string `json:"error"`
}
