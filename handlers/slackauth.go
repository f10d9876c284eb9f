package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"prremind/appctx"
	"prremind/config"
	"prremind/core"
	"prremind/middleware"
	"prremind/models/api"
	"prremind/services"
)

// slackScopes are the user token scopes needed to DM the linked user
const slackScopes = "chat:write users:read"

// onboardingPath is where the frontend handles Slack link results
const onboardingPath = "/onboarding"

type SlackAuthHandler struct {
	slackService    services.SlackConnectionsService
	slackConfig     config.SlackConfig
	frontendBaseURL string
}

func NewSlackAuthHandler(
	slackService services.SlackConnectionsService,
	slackConfig config.SlackConfig,
	frontendBaseURL string,
) *SlackAuthHandler {
	return &SlackAuthHandler{
		slackService:    slackService,
		slackConfig:     slackConfig,
		frontendBaseURL: frontendBaseURL,
	}
}

type SlackAuthURLResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

type SlackTestRequest struct {
	Message string `json:"message"`
}

func (h *SlackAuthHandler) HandleGetAuthURL(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔗 Slack auth URL request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}

	if !h.slackConfig.IsConfigured() {
		log.Printf("❌ Slack OAuth is not configured")
		h.writeJSONResponse(w, http.StatusInternalServerError,
			api.ErrorResponse{Error: "slack integration is not configured"})
		return
	}

	// state carries the user identity through Slack's redirect
	state := fmt.Sprintf("user_%s", user.ID)
	params := url.Values{}
	params.Set("client_id", h.slackConfig.ClientID)
	params.Set("user_scope", slackScopes)
	params.Set("redirect_uri", h.slackConfig.RedirectURI)
	params.Set("state", state)
	authURL := "https://slack.com/oauth/v2/authorize?" + params.Encode()

	h.writeJSONResponse(w, http.StatusOK, SlackAuthURLResponse{AuthURL: authURL, State: state})
}

func (h *SlackAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔗 Slack OAuth callback received from %s", r.RemoteAddr)

	query := r.URL.Query()
	if slackErr := query.Get("error"); slackErr != "" {
		log.Printf("⚠️ Slack reported an OAuth error: %s", slackErr)
		h.redirectWithError(w, r, "Slack authorization was declined: "+slackErr)
		return
	}

	state := query.Get("state")
	if !strings.HasPrefix(state, "user_") {
		log.Printf("❌ Invalid state parameter: %q", state)
		h.redirectWithError(w, r, "Invalid state parameter")
		return
	}
	userID, err := core.ParseID(strings.TrimPrefix(state, "user_"))
	if err != nil {
		log.Printf("❌ State does not contain a valid user ID: %v", err)
		h.redirectWithError(w, r, "Invalid state parameter")
		return
	}

	code := query.Get("code")
	if code == "" {
		h.redirectWithError(w, r, "Missing authorization code")
		return
	}

	conn, err := h.slackService.LinkAccount(r.Context(), userID, code)
	if err != nil {
		log.Printf("❌ Failed to link Slack account: %v", err)
		h.redirectWithError(w, r, "Could not connect your Slack workspace")
		return
	}

	params := url.Values{}
	params.Set("slack_success", "true")
	params.Set("slack_connected", "true")
	if conn.TeamName != nil {
		params.Set("slack_team", *conn.TeamName)
	}
	params.Set("slack_user_id", conn.SlackUserID)
	params.Set("timestamp", strconv.FormatInt(time.Now().Unix(), 10))
	http.Redirect(w, r, h.frontendBaseURL+onboardingPath+"?"+params.Encode(), http.StatusFound)
}

func (h *SlackAuthHandler) HandleGetConnection(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔗 Slack connection lookup request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}

	maybeConn, err := h.slackService.GetConnectionByUserID(r.Context(), user.ID)
	if err != nil {
		log.Printf("❌ Failed to get Slack connection: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError,
			api.ErrorResponse{Error: "failed to get slack connection"})
		return
	}
	conn, ok := maybeConn.Get()
	if !ok {
		h.writeJSONResponse(w, http.StatusNotFound, api.ErrorResponse{Error: "no slack connection"})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.DomainSlackConnectionToAPISlackConnection(conn))
}

func (h *SlackAuthHandler) HandleDisconnect(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔗 Slack disconnect request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}

	if err := h.slackService.Unlink(r.Context(), user.ID); err != nil {
		if core.IsNotFoundError(err) {
			h.writeJSONResponse(w, http.StatusNotFound, api.ErrorResponse{Error: "no slack connection"})
			return
		}
		log.Printf("❌ Failed to disconnect Slack: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError,
			api.ErrorResponse{Error: "failed to disconnect slack"})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "disconnected"})
}

func (h *SlackAuthHandler) HandleSendTest(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔗 Slack test message request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}

	var req SlackTestRequest
	if r.Body != nil {
		// an empty body just means the default test message
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.slackService.SendTestMessage(r.Context(), user.ID, req.Message); err != nil {
		if core.IsNotFoundError(err) {
			h.writeJSONResponse(w, http.StatusNotFound, api.ErrorResponse{Error: "no slack connection"})
			return
		}
		log.Printf("❌ Failed to send Slack test message: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError,
			api.ErrorResponse{Error: "failed to send test message"})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (h *SlackAuthHandler) redirectWithError(w http.ResponseWriter, r *http.Request, message string) {
	params := url.Values{}
	params.Set("slack_success", "false")
	params.Set("slack_error", message)
	params.Set("timestamp", strconv.FormatInt(time.Now().Unix(), 10))
	http.Redirect(w, r, h.frontendBaseURL+onboardingPath+"?"+params.Encode(), http.StatusFound)
}

func (h *SlackAuthHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.SessionAuthMiddleware) {
	log.Printf("🚀 Registering Slack auth endpoints")

	router.HandleFunc("/auth/slack/auth-url", authMiddleware.WithAuth(h.HandleGetAuthURL)).Methods("GET")
	log.Printf("✅ GET /auth/slack/auth-url endpoint registered")

	router.HandleFunc("/auth/slack/callback", h.HandleCallback).Methods("GET")
	log.Printf("✅ GET /auth/slack/callback endpoint registered")

	router.HandleFunc("/auth/slack/connection", authMiddleware.WithAuth(h.HandleGetConnection)).Methods("GET")
	log.Printf("✅ GET /auth/slack/connection endpoint registered")

	router.HandleFunc("/auth/slack/disconnect", authMiddleware.WithAuth(h.HandleDisconnect)).Methods("DELETE")
	log.Printf("✅ DELETE /auth/slack/disconnect endpoint registered")

	router.HandleFunc("/auth/slack/test", authMiddleware.WithAuth(h.HandleSendTest)).Methods("POST")
	log.Printf("✅ POST /auth/slack/test endpoint registered")
}

func (h *SlackAuthHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}
