package users

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"prremind/clients/google"
	"prremind/db"
	"prremind/models"
)

type UsersService struct {
	usersRepo *db.PostgresUsersRepository
}

func NewUsersService(repo *db.PostgresUsersRepository) *UsersService {
	return &UsersService{usersRepo: repo}
}

// ProcessOAuthUser upserts the user identified by the OAuth profile. The
// email unique constraint makes concurrent first logins converge on one row.
func (s *UsersService) ProcessOAuthUser(ctx context.Context, info *google.UserInfo) (*models.User, error) {
	log.Printf("📋 Starting to process OAuth user with email: %s", info.Email)
	if info.Email == "" {
		return nil, fmt.Errorf("oauth profile has no email")
	}

	name := info.Name
	if name == "" {
		name = info.Email
	}
	var profileImage *string
	if info.Picture != "" {
		profileImage = &info.Picture
	}

	user, err := s.usersRepo.UpsertUserByEmail(ctx, name, info.Email, profileImage)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	log.Printf("📋 Completed successfully - processed OAuth user with ID: %s", user.ID)
	return user, nil
}

func (s *UsersService) GetUserByID(ctx context.Context, id uuid.UUID) (mo.Option[*models.User], error) {
	log.Printf("📋 Starting to get user by ID: %s", id)
	user, err := s.usersRepo.GetUserByID(ctx, id)
	if err != nil {
		return mo.None[*models.User](), fmt.Errorf("failed to get user by ID: %w", err)
	}
	if user == nil {
		return mo.None[*models.User](), nil
	}
	log.Printf("📋 Completed successfully - retrieved user by ID: %s", id)
	return mo.Some(user), nil
}

func (s *UsersService) GetUserByEmail(ctx context.Context, email string) (mo.Option[*models.User], error) {
	log.Printf("📋 Starting to get user by email: %s", email)
	if email == "" {
		return mo.None[*models.User](), fmt.Errorf("email cannot be empty")
	}
	user, err := s.usersRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return mo.None[*models.User](), fmt.Errorf("failed to get user by email: %w", err)
	}
	if user == nil {
		return mo.None[*models.User](), nil
	}
	log.Printf("📋 Completed successfully - retrieved user by email: %s", email)
	return mo.Some(user), nil
}
