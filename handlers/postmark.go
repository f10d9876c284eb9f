package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"prremind/config"
	"prremind/core"
	"prremind/db"
	"prremind/metrics"
	"prremind/models/api"
	"prremind/prparse"
	"prremind/services"
)

type PostmarkWebhookHandler struct {
	notificationsService services.PRNotificationsService
	webhookAuth          config.WebhookAuthConfig
	metricsColl          metrics.MetricsCollector
}

func NewPostmarkWebhookHandler(
	notificationsService services.PRNotificationsService,
	webhookAuth config.WebhookAuthConfig,
	metricsColl metrics.MetricsCollector,
) *PostmarkWebhookHandler {
	return &PostmarkWebhookHandler{
		notificationsService: notificationsService,
		webhookAuth:          webhookAuth,
		metricsColl:          metricsColl,
	}
}

// WebhookProcessResponse acknowledges a processed inbound email
type WebhookProcessResponse struct {
	Success        bool       `json:"success"`
	Message        string     `json:"message"`
	NotificationID *uuid.UUID `json:"notification_id,omitempty"`
}

func (h *PostmarkWebhookHandler) HandleInbound(w http.ResponseWriter, r *http.Request) {
	log.Printf("📧 Inbound Postmark webhook received from %s", r.RemoteAddr)

	if !h.authenticate(r) {
		log.Printf("❌ Webhook basic auth failed")
		h.metricsColl.RecordWebhookRejected("bad_auth")
		w.Header().Set("WWW-Authenticate", `Basic realm="postmark"`)
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var inbound prparse.InboundEmail
	if err := json.NewDecoder(r.Body).Decode(&inbound); err != nil {
		log.Printf("❌ Failed to decode webhook payload: %v", err)
		h.metricsColl.RecordWebhookRejected("bad_payload")
		h.writeJSONResponse(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid webhook payload"})
		return
	}

	notification, err := h.notificationsService.ProcessInboundEmail(r.Context(), &inbound)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrDuplicateMessage):
			// a replay is fine, acknowledge so Postmark stops retrying
			h.metricsColl.RecordWebhookDuplicate()
			h.writeJSONResponse(w, http.StatusOK, WebhookProcessResponse{
				Success: true,
				Message: "Message already processed",
			})
		case core.IsNotFoundError(err):
			h.metricsColl.RecordWebhookRejected("unknown_recipient")
			h.writeJSONResponse(w, http.StatusNotFound,
				api.ErrorResponse{Error: "no user registered for recipient address"})
		default:
			log.Printf("❌ Failed to process inbound email: %v", err)
			h.metricsColl.RecordWebhookRejected("processing_error")
			h.writeJSONResponse(w, http.StatusInternalServerError,
				api.ErrorResponse{Error: "failed to process webhook"})
		}
		return
	}

	h.metricsColl.RecordWebhookProcessed()
	if notification.RepoName == nil && notification.PRLink == nil {
		h.metricsColl.RecordParseFallback()
	}

	h.writeJSONResponse(w, http.StatusOK, WebhookProcessResponse{
		Success:        true,
		Message:        "Webhook processed and PR notification saved successfully",
		NotificationID: &notification.ID,
	})
}

func (h *PostmarkWebhookHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "postmark_webhook",
	})
}

// authenticate does a constant-time comparison of the basic auth
// credentials against configuration
func (h *PostmarkWebhookHandler) authenticate(r *http.Request) bool {
	if !h.webhookAuth.IsConfigured() {
		log.Printf("⚠️ Webhook basic auth is not configured, rejecting request")
		return false
	}

	username, password, ok := r.BasicAuth()
	if !ok {
		return false
	}

	userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(h.webhookAuth.Username)) == 1
	passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(h.webhookAuth.Password)) == 1
	return userMatch && passMatch
}

func (h *PostmarkWebhookHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering Postmark webhook endpoints")

	router.HandleFunc("/webhooks/postmark/inbound", h.HandleInbound).Methods("POST")
	log.Printf("✅ POST /webhooks/postmark/inbound endpoint registered")

	router.HandleFunc("/webhooks/postmark/health", h.HandleHealth).Methods("GET")
	log.Printf("✅ GET /webhooks/postmark/health endpoint registered")
}

func (h *PostmarkWebhookHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}
