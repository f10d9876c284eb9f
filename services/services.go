package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"prremind/clients/google"
	"prremind/db"
	"prremind/models"
	"prremind/prparse"
)

// UsersService defines the interface for user-related operations
type UsersService interface {
	ProcessOAuthUser(ctx context.Context, info *google.UserInfo) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (mo.Option[*models.User], error)
	GetUserByEmail(ctx context.Context, email string) (mo.Option[*models.User], error)
}

// SlackConnectionsService defines the interface for Slack account linking
type SlackConnectionsService interface {
	LinkAccount(ctx context.Context, userID uuid.UUID, authCode string) (*models.SlackConnection, error)
	GetConnectionByUserID(ctx context.Context, userID uuid.UUID) (mo.Option[*models.SlackConnection], error)
	Unlink(ctx context.Context, userID uuid.UUID) error
	SendTestMessage(ctx context.Context, userID uuid.UUID, text string) error
}

// PRNotificationsService defines the interface for PR reminder records
type PRNotificationsService interface {
	ProcessInboundEmail(ctx context.Context, in *prparse.InboundEmail) (*models.PRNotification, error)
	ListNotifications(
		ctx context.Context,
		userID uuid.UUID,
		filters db.PRNotificationFilters,
	) ([]*models.PRNotification, error)
	GetNotificationByID(ctx context.Context, id, userID uuid.UUID) (mo.Option[*models.PRNotification], error)
	DeleteNotifications(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error)
	MarkSlackSent(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*models.PRStats, error)
	GetSummary(ctx context.Context, userID uuid.UUID, days int) (*models.PRSummary, error)
	GetRepositories(ctx context.Context, userID uuid.UUID) ([]string, error)
	CleanupOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RemindersService defines the interface for reminder delivery
type RemindersService interface {
	SendUserReminders(ctx context.Context, userID uuid.UUID) (int, error)
	SendDailySummary(ctx context.Context, userID uuid.UUID) error
	SweepAll(ctx context.Context) (int, error)
}
