package reminders

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"prremind/models"
)

// MockRemindersService is a mock implementation of the RemindersService interface
type MockRemindersService struct {
	mock.Mock
}

func (m *MockRemindersService) SendUserReminders(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockRemindersService) SendDailySummary(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockRemindersService) SweepAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockNotificationsRepository is a mock implementation of the NotificationsRepository interface
type MockNotificationsRepository struct {
	mock.Mock
}

func (m *MockNotificationsRepository) GetUnsentNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]*models.PRNotification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PRNotification), args.Error(1)
}

func (m *MockNotificationsRepository) MarkSlackSent(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationsRepository) GetPRStats(ctx context.Context, userID uuid.UUID) (*models.PRStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PRStats), args.Error(1)
}

// MockConnectionsRepository is a mock implementation of the ConnectionsRepository interface
type MockConnectionsRepository struct {
	mock.Mock
}

func (m *MockConnectionsRepository) GetSlackConnectionByUserID(ctx context.Context, userID uuid.UUID) (*models.SlackConnection, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SlackConnection), args.Error(1)
}

func (m *MockConnectionsRepository) GetAllSlackConnections(ctx context.Context) ([]*models.SlackConnection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SlackConnection), args.Error(1)
}
