package models

import (
	"time"

	"github.com/google/uuid"
)

// SlackConnection links a user to a Slack workspace. At most one
// connection exists per user; relinking overwrites the previous one.
type SlackConnection struct {
	ID          uuid.UUID `db:"id"            json:"id"`
	UserID      uuid.UUID `db:"user_id"       json:"user_id"`
	SlackUserID string    `db:"slack_user_id" json:"slack_user_id"`
	SlackTeamID string    `db:"slack_team_id" json:"slack_team_id"`
	AccessToken string    `db:"access_token"  json:"-"`
	TeamName    *string   `db:"team_name"     json:"team_name,omitempty"`
	CreatedAt   time.Time `db:"created_at"    json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"    json:"updated_at"`
}
