package reminders

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/slack-go/slack"

	"prremind/clients/discord"
	slackclient "prremind/clients/slack"
	"prremind/clients/webhook"
	"prremind/core"
	"prremind/models"
)

// maxReminderItems caps how many PRs one reminder batch covers and how
// many the message lists
const maxReminderItems = 10

// NotificationsRepository is the slice of the notifications store the
// reminder flow needs
type NotificationsRepository interface {
	GetUnsentNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]*models.PRNotification, error)
	MarkSlackSent(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error)
	GetPRStats(ctx context.Context, userID uuid.UUID) (*models.PRStats, error)
}

// ConnectionsRepository resolves Slack connections for reminder delivery
type ConnectionsRepository interface {
	GetSlackConnectionByUserID(ctx context.Context, userID uuid.UUID) (*models.SlackConnection, error)
	GetAllSlackConnections(ctx context.Context) ([]*models.SlackConnection, error)
}

type RemindersService struct {
	notificationsRepo NotificationsRepository
	connectionsRepo   ConnectionsRepository
	slackClient       slackclient.SlackClient
	discordClient     discord.DiscordClient
	opsChannelID      string
	webhookClient     webhook.WebhookClient
	alertWebhookURL   string
}

func NewRemindersService(
	notificationsRepo NotificationsRepository,
	connectionsRepo ConnectionsRepository,
	slackClient slackclient.SlackClient,
) *RemindersService {
	return &RemindersService{
		notificationsRepo: notificationsRepo,
		connectionsRepo:   connectionsRepo,
		slackClient:       slackClient,
	}
}

// WithOpsChannel enables sweep reports to a Discord ops channel
func (s *RemindersService) WithOpsChannel(client discord.DiscordClient, channelID string) *RemindersService {
	s.discordClient = client
	s.opsChannelID = channelID
	return s
}

// WithAlertWebhook enables failure alerts to an external webhook
func (s *RemindersService) WithAlertWebhook(client webhook.WebhookClient, url string) *RemindersService {
	s.webhookClient = client
	s.alertWebhookURL = url
	return s
}

// SendUserReminders DMs the user their pending PR notifications and marks
// them as sent. Returns how many notifications the reminder covered.
func (s *RemindersService) SendUserReminders(ctx context.Context, userID uuid.UUID) (int, error) {
	log.Printf("📋 Starting to send reminders for user: %s", userID)

	conn, err := s.connectionsRepo.GetSlackConnectionByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get slack connection: %w", err)
	}
	if conn == nil {
		return 0, core.ErrNotFound
	}

	pending, err := s.notificationsRepo.GetUnsentNotifications(ctx, userID, maxReminderItems)
	if err != nil {
		return 0, fmt.Errorf("failed to get unsent notifications: %w", err)
	}
	if len(pending) == 0 {
		log.Printf("📋 Completed successfully - no pending reminders for user: %s", userID)
		return 0, nil
	}

	msg := buildReminderMessage(pending)
	if err := s.slackClient.PostMessageContext(ctx, conn.AccessToken, conn.SlackUserID, msg); err != nil {
		return 0, fmt.Errorf("failed to send reminder message: %w", err)
	}

	ids := make([]uuid.UUID, len(pending))
	for i, n := range pending {
		ids[i] = n.ID
	}
	if _, err := s.notificationsRepo.MarkSlackSent(ctx, ids, userID); err != nil {
		return 0, fmt.Errorf("failed to mark reminders as sent: %w", err)
	}

	log.Printf("📋 Completed successfully - sent %d reminders to user: %s", len(pending), userID)
	return len(pending), nil
}

// SendDailySummary DMs the user an aggregate view of their notifications
func (s *RemindersService) SendDailySummary(ctx context.Context, userID uuid.UUID) error {
	log.Printf("📋 Starting to send daily summary for user: %s", userID)

	conn, err := s.connectionsRepo.GetSlackConnectionByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get slack connection: %w", err)
	}
	if conn == nil {
		return core.ErrNotFound
	}

	stats, err := s.notificationsRepo.GetPRStats(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get pr stats: %w", err)
	}

	msg := buildSummaryMessage(stats)
	if err := s.slackClient.PostMessageContext(ctx, conn.AccessToken, conn.SlackUserID, msg); err != nil {
		return fmt.Errorf("failed to send daily summary: %w", err)
	}

	log.Printf("📋 Completed successfully - sent daily summary to user: %s", userID)
	return nil
}

// SweepAll sends reminders to every user with a linked Slack workspace.
// Per-user failures are reported but do not abort the sweep.
func (s *RemindersService) SweepAll(ctx context.Context) (int, error) {
	log.Printf("📋 Starting reminder sweep across all connected users")

	connections, err := s.connectionsRepo.GetAllSlackConnections(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list slack connections: %w", err)
	}

	totalSent := 0
	failures := 0
	for _, conn := range connections {
		sent, err := s.SendUserReminders(ctx, conn.UserID)
		if err != nil {
			failures++
			log.Printf("❌ Reminder sweep failed for user %s: %v", conn.UserID, err)
			s.alertFailure(ctx, conn.UserID, err)
			continue
		}
		totalSent += sent
	}

	s.reportSweep(len(connections), totalSent, failures)

	log.Printf("📋 Completed successfully - sweep sent %d reminders across %d users (%d failures)",
		totalSent, len(connections), failures)
	return totalSent, nil
}

func (s *RemindersService) alertFailure(ctx context.Context, userID uuid.UUID, cause error) {
	if s.webhookClient == nil || s.alertWebhookURL == "" {
		return
	}
	payload := map[string]string{
		"event":   "reminder_delivery_failed",
		"user_id": userID.String(),
		"error":   cause.Error(),
	}
	if err := s.webhookClient.Send(ctx, s.alertWebhookURL, payload); err != nil {
		log.Printf("⚠️ Failed to send failure alert webhook: %v", err)
	}
}

func (s *RemindersService) reportSweep(users, sent, failures int) {
	if s.discordClient == nil || s.opsChannelID == "" {
		return
	}
	report := fmt.Sprintf("🔔 Reminder sweep finished: %d reminders across %d users, %d failures",
		sent, users, failures)
	if err := s.discordClient.SendChannelMessage(s.opsChannelID, report); err != nil {
		log.Printf("⚠️ Failed to send sweep report to Discord: %v", err)
	}
}

func buildReminderMessage(pending []*models.PRNotification) slackclient.Message {
	header := fmt.Sprintf("🔔 You have %d open PR notifications", len(pending))

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, header, true, false)),
		slack.NewDividerBlock(),
	}

	shown := pending
	if len(shown) > maxReminderItems {
		shown = shown[:maxReminderItems]
	}
	for _, n := range shown {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, formatReminderLine(n), false, false),
			nil, nil,
		))
	}
	if extra := len(pending) - len(shown); extra > 0 {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("…and %d more", extra), false, false),
		))
	}

	return slackclient.Message{Text: header, Blocks: blocks}
}

func formatReminderLine(n *models.PRNotification) string {
	title := n.PRTitle
	if n.PRLink != nil {
		title = fmt.Sprintf("<%s|%s>", *n.PRLink, n.PRTitle)
	}
	line := fmt.Sprintf("*%s*", title)
	if n.RepoName != nil {
		line += fmt.Sprintf("\n`%s`", *n.RepoName)
	}
	if n.PRStatus != nil {
		line += fmt.Sprintf(" · %s", *n.PRStatus)
	}
	return line
}

func buildSummaryMessage(stats *models.PRStats) slackclient.Message {
	text := fmt.Sprintf("📊 Daily PR summary: %d notifications total, %d awaiting delivery",
		stats.Total, stats.PendingSlack)

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "📊 Daily PR summary", true, false)),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Total:* %d\n*Awaiting delivery:* %d", stats.Total, stats.PendingSlack),
				false, false),
			nil, nil,
		),
	}
	for status, count := range stats.ByStatus {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("%s: %d", status, count), false, false),
		))
	}

	return slackclient.Message{Text: text, Blocks: blocks}
}
