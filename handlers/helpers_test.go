package handlers

import (
	"prremind/middleware"
	"prremind/services/users"
	"prremind/sessions"
)

func newTestMiddleware(issuer *sessions.Issuer) *middleware.SessionAuthMiddleware {
	return middleware.NewSessionAuthMiddleware(new(users.MockUsersService), issuer)
}
