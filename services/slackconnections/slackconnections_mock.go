package slackconnections

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"prremind/models"
)

// MockSlackConnectionsService is a mock implementation of the SlackConnectionsService interface
type MockSlackConnectionsService struct {
	mock.Mock
}

func (m *MockSlackConnectionsService) LinkAccount(
	ctx context.Context,
	userID uuid.UUID,
	authCode string,
) (*models.SlackConnection, error) {
	args := m.Called(ctx, userID, authCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SlackConnection), args.Error(1)
}

func (m *MockSlackConnectionsService) GetConnectionByUserID(
	ctx context.Context,
	userID uuid.UUID,
) (mo.Option[*models.SlackConnection], error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(mo.Option[*models.SlackConnection]), args.Error(1)
}

func (m *MockSlackConnectionsService) Unlink(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSlackConnectionsService) SendTestMessage(ctx context.Context, userID uuid.UUID, text string) error {
	args := m.Called(ctx, userID, text)
	return args.Error(0)
}
