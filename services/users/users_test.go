package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"prremind/clients/google"
)

func TestProcessOAuthUser_RequiresEmail(t *testing.T) {
	service := NewUsersService(nil)

	_, err := service.ProcessOAuthUser(context.Background(), &google.UserInfo{
		ID:   "google-123",
		Name: "No Email",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no email")
}

func TestGetUserByEmail_RequiresEmail(t *testing.T) {
	service := NewUsersService(nil)

	result, err := service.GetUserByEmail(context.Background(), "")

	assert.Error(t, err)
	assert.True(t, result.IsAbsent())
}
