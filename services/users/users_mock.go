package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"prremind/clients/google"
	"prremind/models"
)

// MockUsersService is a mock implementation of the UsersService interface
type MockUsersService struct {
	mock.Mock
}

func (m *MockUsersService) ProcessOAuthUser(ctx context.Context, info *google.UserInfo) (*models.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsersService) GetUserByID(ctx context.Context, id uuid.UUID) (mo.Option[*models.User], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.User]), args.Error(1)
}

func (m *MockUsersService) GetUserByEmail(ctx context.Context, email string) (mo.Option[*models.User], error) {
	args := m.Called(ctx, email)
	return args.Get(0).(mo.Option[*models.User]), args.Error(1)
}
