package prnotifications

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"prremind/core"
	"prremind/db"
	"prremind/models"
	"prremind/prparse"
	"prremind/services"
)

// staleOpenPRDays is the age after which a still-open PR counts as
// needing attention in the activity summary.
const staleOpenPRDays = 7

type PRNotificationsService struct {
	notificationsRepo *db.PostgresPRNotificationsRepository
	usersService      services.UsersService
}

func NewPRNotificationsService(
	repo *db.PostgresPRNotificationsRepository,
	usersService services.UsersService,
) *PRNotificationsService {
	return &PRNotificationsService{
		notificationsRepo: repo,
		usersService:      usersService,
	}
}

// ProcessInboundEmail parses an inbound email, resolves its recipient to a
// registered user, and stores the notification. Replays of an already-stored
// MessageID surface as db.ErrDuplicateMessage.
func (s *PRNotificationsService) ProcessInboundEmail(
	ctx context.Context,
	in *prparse.InboundEmail,
) (*models.PRNotification, error) {
	log.Printf("📋 Starting to process inbound email with message ID: %s", in.MessageID)

	recipient := prparse.ExtractRecipient(in)
	if recipient == "" {
		return nil, fmt.Errorf("inbound email has no recipient")
	}

	maybeUser, err := s.usersService.GetUserByEmail(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipient: %w", err)
	}
	user, ok := maybeUser.Get()
	if !ok {
		log.Printf("⚠️ No registered user for recipient: %s", recipient)
		return nil, core.ErrNotFound
	}

	messageID := in.MessageID
	if messageID == "" {
		messageID = core.NewMessageID()
		log.Printf("⚠️ Inbound email has no message ID, generated: %s", messageID)
	}

	extraction := prparse.Parse(in)

	notification := &models.PRNotification{
		ID:             core.NewID(),
		UserID:         user.ID,
		SenderEmail:    in.From,
		RecipientEmail: recipient,
		PRTitle:        extraction.PRTitle,
		Subject:        in.Subject,
		MessageID:      messageID,
		ReceivedAt:     parseReceivedAt(in.Date),
		IsForwarded:    extraction.IsForwarded,
	}
	if extraction.RepoName != "" {
		notification.RepoName = &extraction.RepoName
	}
	if extraction.PRLink != "" {
		notification.PRLink = &extraction.PRLink
	}
	if extraction.PRNumber != "" {
		notification.PRNumber = &extraction.PRNumber
	}
	if extraction.PRStatus != "" {
		notification.PRStatus = &extraction.PRStatus
	}
	if in.TextBody != "" {
		notification.RawText = &in.TextBody
	}
	if in.HtmlBody != "" {
		notification.RawHTML = &in.HtmlBody
	}

	if err := s.notificationsRepo.CreatePRNotification(ctx, notification); err != nil {
		if errors.Is(err, db.ErrDuplicateMessage) {
			log.Printf("⚠️ Duplicate inbound email with message ID: %s", messageID)
			return nil, err
		}
		return nil, fmt.Errorf("failed to store pr notification: %w", err)
	}

	log.Printf("📋 Completed successfully - stored PR notification %s for user: %s", notification.ID, user.ID)
	return notification, nil
}

func (s *PRNotificationsService) ListNotifications(
	ctx context.Context,
	userID uuid.UUID,
	filters db.PRNotificationFilters,
) ([]*models.PRNotification, error) {
	log.Printf("📋 Starting to list PR notifications for user: %s", userID)
	notifications, err := s.notificationsRepo.ListPRNotifications(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list pr notifications: %w", err)
	}
	log.Printf("📋 Completed successfully - listed %d PR notifications for user: %s", len(notifications), userID)
	return notifications, nil
}

func (s *PRNotificationsService) GetNotificationByID(
	ctx context.Context,
	id, userID uuid.UUID,
) (mo.Option[*models.PRNotification], error) {
	log.Printf("📋 Starting to get PR notification: %s", id)
	notification, err := s.notificationsRepo.GetPRNotificationByID(ctx, id, userID)
	if err != nil {
		return mo.None[*models.PRNotification](), fmt.Errorf("failed to get pr notification: %w", err)
	}
	if notification == nil {
		return mo.None[*models.PRNotification](), nil
	}
	log.Printf("📋 Completed successfully - retrieved PR notification: %s", id)
	return mo.Some(notification), nil
}

func (s *PRNotificationsService) DeleteNotifications(
	ctx context.Context,
	ids []uuid.UUID,
	userID uuid.UUID,
) (int64, error) {
	log.Printf("📋 Starting to delete %d PR notifications for user: %s", len(ids), userID)
	if len(ids) == 0 {
		return 0, fmt.Errorf("no notification IDs provided")
	}
	deleted, err := s.notificationsRepo.DeletePRNotifications(ctx, ids, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete pr notifications: %w", err)
	}
	log.Printf("📋 Completed successfully - deleted %d PR notifications for user: %s", deleted, userID)
	return deleted, nil
}

func (s *PRNotificationsService) MarkSlackSent(
	ctx context.Context,
	ids []uuid.UUID,
	userID uuid.UUID,
) (int64, error) {
	log.Printf("📋 Starting to mark %d PR notifications as sent for user: %s", len(ids), userID)
	if len(ids) == 0 {
		return 0, fmt.Errorf("no notification IDs provided")
	}
	marked, err := s.notificationsRepo.MarkSlackSent(ctx, ids, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark pr notifications as sent: %w", err)
	}
	log.Printf("📋 Completed successfully - marked %d PR notifications as sent for user: %s", marked, userID)
	return marked, nil
}

func (s *PRNotificationsService) GetStats(ctx context.Context, userID uuid.UUID) (*models.PRStats, error) {
	log.Printf("📋 Starting to get PR stats for user: %s", userID)
	stats, err := s.notificationsRepo.GetPRStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pr stats: %w", err)
	}
	log.Printf("📋 Completed successfully - retrieved PR stats for user: %s", userID)
	return stats, nil
}

func (s *PRNotificationsService) GetSummary(
	ctx context.Context,
	userID uuid.UUID,
	days int,
) (*models.PRSummary, error) {
	log.Printf("📋 Starting to get PR summary for user: %s (last %d days)", userID, days)
	if days < 1 {
		return nil, fmt.Errorf("days must be at least 1")
	}
	now := time.Now().UTC()
	since := now.AddDate(0, 0, -days)
	staleBefore := now.AddDate(0, 0, -staleOpenPRDays)
	summary, err := s.notificationsRepo.GetPRSummary(ctx, userID, since, staleBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to get pr summary: %w", err)
	}
	summary.PeriodDays = days
	log.Printf("📋 Completed successfully - retrieved PR summary for user: %s", userID)
	return summary, nil
}

func (s *PRNotificationsService) GetRepositories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	log.Printf("📋 Starting to get repositories for user: %s", userID)
	repos, err := s.notificationsRepo.GetUserRepositories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user repositories: %w", err)
	}
	log.Printf("📋 Completed successfully - retrieved %d repositories for user: %s", len(repos), userID)
	return repos, nil
}

// CleanupOlderThan removes notifications received before the cutoff.
// The scheduler runs this weekly to keep the table bounded.
func (s *PRNotificationsService) CleanupOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	log.Printf("📋 Starting to clean up PR notifications older than: %s", cutoff.Format(time.RFC3339))
	deleted, err := s.notificationsRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up pr notifications: %w", err)
	}
	log.Printf("📋 Completed successfully - cleaned up %d PR notifications", deleted)
	return deleted, nil
}

func parseReceivedAt(date string) time.Time {
	if date == "" {
		return time.Now().UTC()
	}
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339} {
		if t, err := time.Parse(layout, date); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}
