package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"prremind/appctx"
	"prremind/services"
	"prremind/sessions"
)

// SessionAuthMiddleware handles bearer token authentication using the
// session issuer. Every rejection reads the same to the caller; the
// specific cause only shows up in the logs.
type SessionAuthMiddleware struct {
	usersService services.UsersService
	issuer       *sessions.Issuer
}

// NewSessionAuthMiddleware creates a new authentication middleware instance
func NewSessionAuthMiddleware(usersService services.UsersService, issuer *sessions.Issuer) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{
		usersService: usersService,
		issuer:       issuer,
	}
}

// WithAuth wraps an HTTP handler with session token authentication
func (m *SessionAuthMiddleware) WithAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("🔐 Authentication middleware processing request from %s", r.RemoteAddr)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Printf("❌ Missing Authorization header")
			m.writeUnauthenticated(w)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Printf("❌ Invalid Authorization header format")
			m.writeUnauthenticated(w)
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			log.Printf("❌ Empty bearer token")
			m.writeUnauthenticated(w)
			return
		}

		userID, err := m.issuer.Validate(token)
		if err != nil {
			log.Printf("❌ Session token validation failed: %v", err)
			m.writeUnauthenticated(w)
			return
		}

		maybeUser, err := m.usersService.GetUserByID(r.Context(), userID)
		if err != nil {
			log.Printf("❌ Failed to load user %s: %v", userID, err)
			m.writeErrorResponse(w, "internal server error", http.StatusInternalServerError)
			return
		}
		user, ok := maybeUser.Get()
		if !ok {
			log.Printf("❌ Session token references unknown user: %s", userID)
			m.writeUnauthenticated(w)
			return
		}

		log.Printf("✅ User authenticated successfully: %s", user.ID)
		ctx := appctx.SetUser(r.Context(), user)
		r = r.WithContext(ctx)

		next(w, r)
	}
}

func (m *SessionAuthMiddleware) writeUnauthenticated(w http.ResponseWriter) {
	m.writeErrorResponse(w, "unauthenticated", http.StatusUnauthorized)
}

// writeErrorResponse writes a standardized error response
func (m *SessionAuthMiddleware) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("❌ Failed to encode error response: %v", err)
	}
}
