package models

import (
	"time"

	"github.com/google/uuid"
)

// PR status values extracted from notification emails.
const (
	PRStatusOpened  = "opened"
	PRStatusMerged  = "merged"
	PRStatusClosed  = "closed"
	PRStatusUpdated = "updated"
)

type PRNotification struct {
	ID             uuid.UUID `db:"id"              json:"id"`
	UserID         uuid.UUID `db:"user_id"         json:"user_id"`
	SenderEmail    string    `db:"sender_email"    json:"sender_email"`
	RecipientEmail string    `db:"recipient_email" json:"recipient_email"`
	RepoName       *string   `db:"repo_name"       json:"repo_name,omitempty"`
	PRTitle        string    `db:"pr_title"        json:"pr_title"`
	PRLink         *string   `db:"pr_link"         json:"pr_link,omitempty"`
	PRNumber       *string   `db:"pr_number"       json:"pr_number,omitempty"`
	PRStatus       *string   `db:"pr_status"       json:"pr_status,omitempty"`
	Subject        string    `db:"subject"         json:"subject"`
	MessageID      string    `db:"message_id"      json:"message_id"`
	ReceivedAt     time.Time `db:"received_at"     json:"received_at"`
	RawText        *string   `db:"raw_text"        json:"-"`
	RawHTML        *string   `db:"raw_html"        json:"-"`
	IsForwarded    bool      `db:"is_forwarded"    json:"is_forwarded"`
	SlackSent      bool      `db:"slack_sent"      json:"slack_sent"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"      json:"updated_at"`
}

// PRStats aggregates a user's notification counts for the dashboard.
type PRStats struct {
	Total        int            `json:"total"`
	PendingSlack int            `json:"pending_slack"`
	ByStatus     map[string]int `json:"by_status"`
	ByRepo       map[string]int `json:"by_repo"`
}

// PRSummary describes a user's PR activity over a trailing window.
type PRSummary struct {
	PeriodDays         int            `json:"period_days"`
	TotalNotifications int            `json:"total_notifications"`
	NewPRs             int            `json:"new_prs"`
	MergedPRs          int            `json:"merged_prs"`
	ClosedPRs          int            `json:"closed_prs"`
	Repositories       []string       `json:"repositories_involved"`
	DailyActivity      map[string]int `json:"daily_activity"`
	OldOpenPRs         int            `json:"old_open_prs"`
}
