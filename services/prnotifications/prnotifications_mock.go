package prnotifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"prremind/db"
	"prremind/models"
	"prremind/prparse"
)

// MockPRNotificationsService is a mock implementation of the PRNotificationsService interface
type MockPRNotificationsService struct {
	mock.Mock
}

func (m *MockPRNotificationsService) ProcessInboundEmail(
	ctx context.Context,
	in *prparse.InboundEmail,
) (*models.PRNotification, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PRNotification), args.Error(1)
}

func (m *MockPRNotificationsService) ListNotifications(
	ctx context.Context,
	userID uuid.UUID,
	filters db.PRNotificationFilters,
) ([]*models.PRNotification, error) {
	args := m.Called(ctx, userID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PRNotification), args.Error(1)
}

func (m *MockPRNotificationsService) GetNotificationByID(
	ctx context.Context,
	id, userID uuid.UUID,
) (mo.Option[*models.PRNotification], error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(mo.Option[*models.PRNotification]), args.Error(1)
}

func (m *MockPRNotificationsService) DeleteNotifications(
	ctx context.Context,
	ids []uuid.UUID,
	userID uuid.UUID,
) (int64, error) {
	args := m.Called(ctx, ids, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPRNotificationsService) MarkSlackSent(
	ctx context.Context,
	ids []uuid.UUID,
	userID uuid.UUID,
) (int64, error) {
	args := m.Called(ctx, ids, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPRNotificationsService) GetStats(ctx context.Context, userID uuid.UUID) (*models.PRStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PRStats), args.Error(1)
}

func (m *MockPRNotificationsService) GetSummary(ctx context.Context, userID uuid.UUID, days int) (*models.PRSummary, error) {
	args := m.Called(ctx, userID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PRSummary), args.Error(1)
}

func (m *MockPRNotificationsService) GetRepositories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPRNotificationsService) CleanupOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
