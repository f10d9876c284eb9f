package slackconnections

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/samber/mo"

	slackclient "prremind/clients/slack"
	"prremind/config"
	"prremind/core"
	"prremind/db"
	"prremind/models"
)

type SlackConnectionsService struct {
	connectionsRepo *db.PostgresSlackConnectionsRepository
	slackClient     slackclient.SlackClient
	slackConfig     config.SlackConfig
	httpClient      *http.Client
}

func NewSlackConnectionsService(
	repo *db.PostgresSlackConnectionsRepository,
	client slackclient.SlackClient,
	cfg config.SlackConfig,
) *SlackConnectionsService {
	return &SlackConnectionsService{
		connectionsRepo: repo,
		slackClient:     client,
		slackConfig:     cfg,
		httpClient:      http.DefaultClient,
	}
}

// LinkAccount exchanges a Slack OAuth authorization code and stores the
// resulting workspace connection for the user, replacing any previous one.
func (s *SlackConnectionsService) LinkAccount(
	ctx context.Context,
	userID uuid.UUID,
	authCode string,
) (*models.SlackConnection, error) {
	log.Printf("📋 Starting to link Slack account for user: %s", userID)
	if !s.slackConfig.IsConfigured() {
		return nil, fmt.Errorf("slack oauth is not configured")
	}
	if authCode == "" {
		return nil, fmt.Errorf("authorization code cannot be empty")
	}

	resp, err := s.slackClient.GetOAuthV2Response(
		s.httpClient,
		s.slackConfig.ClientID,
		s.slackConfig.ClientSecret,
		authCode,
		s.slackConfig.RedirectURI,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange slack oauth code: %w", err)
	}
	if resp.TeamID == "" || resp.AuthedUserID == "" || resp.AccessToken == "" {
		return nil, fmt.Errorf("slack oauth response is missing required fields")
	}

	conn := &models.SlackConnection{
		ID:          core.NewID(),
		UserID:      userID,
		SlackUserID: resp.AuthedUserID,
		SlackTeamID: resp.TeamID,
		AccessToken: resp.AccessToken,
	}
	if resp.TeamName != "" {
		conn.TeamName = &resp.TeamName
	}

	if err := s.connectionsRepo.UpsertSlackConnection(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to store slack connection: %w", err)
	}

	log.Printf("📋 Completed successfully - linked Slack team %s for user: %s", resp.TeamID, userID)
	return conn, nil
}

func (s *SlackConnectionsService) GetConnectionByUserID(
	ctx context.Context,
	userID uuid.UUID,
) (mo.Option[*models.SlackConnection], error) {
	log.Printf("📋 Starting to get Slack connection for user: %s", userID)
	conn, err := s.connectionsRepo.GetSlackConnectionByUserID(ctx, userID)
	if err != nil {
		return mo.None[*models.SlackConnection](), fmt.Errorf("failed to get slack connection: %w", err)
	}
	if conn == nil {
		return mo.None[*models.SlackConnection](), nil
	}
	log.Printf("📋 Completed successfully - retrieved Slack connection for user: %s", userID)
	return mo.Some(conn), nil
}

func (s *SlackConnectionsService) Unlink(ctx context.Context, userID uuid.UUID) error {
	log.Printf("📋 Starting to unlink Slack account for user: %s", userID)
	if err := s.connectionsRepo.DeleteSlackConnectionByUserID(ctx, userID); err != nil {
		if core.IsNotFoundError(err) {
			return err
		}
		return fmt.Errorf("failed to delete slack connection: %w", err)
	}
	log.Printf("📋 Completed successfully - unlinked Slack account for user: %s", userID)
	return nil
}

// SendTestMessage DMs the linked Slack user to verify the stored token
func (s *SlackConnectionsService) SendTestMessage(ctx context.Context, userID uuid.UUID, text string) error {
	log.Printf("📋 Starting to send Slack test message for user: %s", userID)
	conn, err := s.connectionsRepo.GetSlackConnectionByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get slack connection: %w", err)
	}
	if conn == nil {
		return core.ErrNotFound
	}

	if text == "" {
		text = "👋 Your PR reminders are connected and working!"
	}
	msg := slackclient.Message{Text: text}
	if err := s.slackClient.PostMessageContext(ctx, conn.AccessToken, conn.SlackUserID, msg); err != nil {
		return fmt.Errorf("failed to send test message: %w", err)
	}

	log.Printf("📋 Completed successfully - sent Slack test message for user: %s", userID)
	return nil
}
