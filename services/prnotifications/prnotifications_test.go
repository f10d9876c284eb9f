package prnotifications

import (
	"context"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"prremind/core"
	"prremind/models"
	"prremind/prparse"
	"prremind/services/users"
)

func TestProcessInboundEmail_NoRecipient(t *testing.T) {
	mockUsers := new(users.MockUsersService)
	service := NewPRNotificationsService(nil, mockUsers)

	_, err := service.ProcessInboundEmail(context.Background(), &prparse.InboundEmail{
		From:    "notifications@github.com",
		Subject: "[acme/widgets] Fix race (PR #12)",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no recipient")
	mockUsers.AssertNotCalled(t, "GetUserByEmail")
}

func TestProcessInboundEmail_UnknownRecipient(t *testing.T) {
	mockUsers := new(users.MockUsersService)
	mockUsers.On("GetUserByEmail", mock.Anything, "ghost@example.com").
		Return(mo.None[*models.User](), nil)
	service := NewPRNotificationsService(nil, mockUsers)

	_, err := service.ProcessInboundEmail(context.Background(), &prparse.InboundEmail{
		From:    "notifications@github.com",
		To:      "ghost@example.com",
		Subject: "[acme/widgets] Fix race (PR #12)",
	})

	assert.ErrorIs(t, err, core.ErrNotFound)
	mockUsers.AssertExpectations(t)
}

func TestProcessInboundEmail_PrefersOriginalRecipient(t *testing.T) {
	mockUsers := new(users.MockUsersService)
	mockUsers.On("GetUserByEmail", mock.Anything, "dev@example.com").
		Return(mo.None[*models.User](), nil)
	service := NewPRNotificationsService(nil, mockUsers)

	_, err := service.ProcessInboundEmail(context.Background(), &prparse.InboundEmail{
		From:              "notifications@github.com",
		To:                "inbound-hash@postmarkapp.com",
		OriginalRecipient: "dev@example.com",
		Subject:           "[acme/widgets] Fix race (PR #12)",
	})

	assert.ErrorIs(t, err, core.ErrNotFound)
	mockUsers.AssertExpectations(t)
}

func TestDeleteNotifications_EmptyIDs(t *testing.T) {
	service := NewPRNotificationsService(nil, new(users.MockUsersService))

	_, err := service.DeleteNotifications(context.Background(), nil, core.NewID())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no notification IDs")
}

func TestParseReceivedAt(t *testing.T) {
	parsed := parseReceivedAt("Mon, 02 Jan 2006 15:04:05 -0700")
	assert.Equal(t, 2006, parsed.Year())
	assert.Equal(t, time.UTC, parsed.Location())

	fallback := parseReceivedAt("not a date")
	assert.WithinDuration(t, time.Now().UTC(), fallback, time.Minute)
}
