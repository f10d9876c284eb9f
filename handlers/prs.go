package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"prremind/appctx"
	"prremind/core"
	"prremind/db"
	"prremind/middleware"
	"prremind/models/api"
	"prremind/services"
)

type PRNotificationsHandler struct {
	notificationsService services.PRNotificationsService
}

func NewPRNotificationsHandler(notificationsService services.PRNotificationsService) *PRNotificationsHandler {
	return &PRNotificationsHandler{notificationsService: notificationsService}
}

// BulkNotificationRequest carries the IDs for bulk delete and bulk
// mark-sent operations
type BulkNotificationRequest struct {
	NotificationIDs []uuid.UUID `json:"notification_ids"`
}

type BulkNotificationResponse struct {
	Affected int64 `json:"affected"`
}

func (h *PRNotificationsHandler) HandleListNotifications(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List PR notifications request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}

	filters, err := parseNotificationFilters(r)
	if err != nil {
		h.writeJSONResponse(w, http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	notifications, err := h.notificationsService.ListNotifications(r.Context(), user.ID, filters)
	if err != nil {
		log.Printf("❌ Failed to list PR notifications: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError,
			api.ErrorResponse{Error: "failed to list notifications"})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, notifications)
}

func (h *PRNotificationsHandler) HandleGetNotification(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Get PR notification request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}

	id, err := core.ParseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeJSONResponse(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid notification id"})
		return
	}

	maybeNotification, err := h.notificationsService.GetNotificationByID(r.Context(), id, user.ID)
	if err != nil {
		log.Printf("❌ Failed to get PR notification: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError,
			api.ErrorResponse{Error: "failed to get notification"})
		return
	}
	notification, ok := maybeNotification.Get()
	if !ok {
		h.writeJSONResponse(w, http.StatusNotFound, api.ErrorResponse{Error: "notification not found"})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, notification)
}

func (h *PRNotificationsHandler) HandleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Delete PR notification request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}

	id, err := core.ParseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeJSONResponse(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid notification id"})
		return
	}

	deleted, err := h.notificationsService.DeleteNotifications(r.Context(), []uuid.UUID{id}, user.ID)
	if err != nil {
		log.Printf("❌ Failed to delete PR notification: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError,
			api.ErrorResponse{Error: "failed to delete notification"})
		return
	}
	if deleted == 0 {
		h.writeJSONResponse(w, http.StatusNotFound, api.ErrorResponse{Error: "notification not found"})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, BulkNotificationResponse{Affected: deleted})
}

func (h *PRNotificationsHandler) HandleBulkDelete(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Bulk delete PR notifications request received from %s", r.RemoteAddr)
	h.handleBulkOperation(w, r, h.notificationsService.DeleteNotifications)
}

func (h *PRNotificationsHandler) HandleBulkMarkSlackSent(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Bulk mark-sent PR notifications request received from %s", r.RemoteAddr)
	h.handleBulkOperation(w, r, h.notificationsService.MarkSlackSent)
}

// bulkOperation is the shared shape of the bulk service calls
type bulkOperation func(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error)

func (h *PRNotificationsHandler) handleBulkOperation(w http.ResponseWriter, r *http.Request, op bulkOperation) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}

	var req BulkNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONResponse(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}
	if len(req.NotificationIDs) == 0 {
		h.writeJSONResponse(w, http.StatusBadRequest,
			api.ErrorResponse{Error: "notification_ids cannot be empty"})
		return
	}

	affected, err := op(r.Context(), req.NotificationIDs, user.ID)
	if err != nil {
		log.Printf("❌ Bulk notification operation failed: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError,
			api.ErrorResponse{Error: "bulk operation failed"})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, BulkNotificationResponse{Affected: affected})
}

func (h *PRNotificationsHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 PR stats request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}

	stats, err := h.notificationsService.GetStats(r.Context(), user.ID)
	if err != nil {
		log.Printf("❌ Failed to get PR stats: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError,
			api.ErrorResponse{Error: "failed to get stats"})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, stats)
}

func (h *PRNotificationsHandler) HandleGetRepositories(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 PR repositories request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}

	repos, err := h.notificationsService.GetRepositories(r.Context(), user.ID)
	if err != nil {
		log.Printf("❌ Failed to get repositories: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError,
			api.ErrorResponse{Error: "failed to get repositories"})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string][]string{"repositories": repos})
}

func (h *PRNotificationsHandler) HandleMarkSlackSent(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Mark PR notification as sent request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}

	id, err := core.ParseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeJSONResponse(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid notification id"})
		return
	}

	marked, err := h.notificationsService.MarkSlackSent(r.Context(), []uuid.UUID{id}, user.ID)
	if err != nil {
		log.Printf("❌ Failed to mark PR notification as sent: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError,
			api.ErrorResponse{Error: "failed to mark notification as sent"})
		return
	}
	if marked == 0 {
		h.writeJSONResponse(w, http.StatusNotFound, api.ErrorResponse{Error: "notification not found"})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, BulkNotificationResponse{Affected: marked})
}

func (h *PRNotificationsHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 PR summary request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}

	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			h.writeJSONResponse(w, http.StatusBadRequest,
				api.ErrorResponse{Error: "invalid days parameter"})
			return
		}
		days = parsed
	}

	summary, err := h.notificationsService.GetSummary(r.Context(), user.ID, days)
	if err != nil {
		log.Printf("❌ Failed to get PR summary: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError,
			api.ErrorResponse{Error: "failed to get summary"})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, summary)
}

func (h *PRNotificationsHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.SessionAuthMiddleware) {
	log.Printf("🚀 Registering PR notification endpoints")

	router.HandleFunc("/prs/notifications", authMiddleware.WithAuth(h.HandleListNotifications)).Methods("GET")
	log.Printf("✅ GET /prs/notifications endpoint registered")

	router.HandleFunc("/prs/notifications/{id}", authMiddleware.WithAuth(h.HandleGetNotification)).Methods("GET")
	log.Printf("✅ GET /prs/notifications/{id} endpoint registered")

	router.HandleFunc("/prs/notifications/{id}", authMiddleware.WithAuth(h.HandleDeleteNotification)).
		Methods("DELETE")
	log.Printf("✅ DELETE /prs/notifications/{id} endpoint registered")

	router.HandleFunc("/prs/notifications/{id}/mark-slack-sent", authMiddleware.WithAuth(h.HandleMarkSlackSent)).
		Methods("POST")
	log.Printf("✅ POST /prs/notifications/{id}/mark-slack-sent endpoint registered")

	router.HandleFunc("/prs/notifications/bulk-delete", authMiddleware.WithAuth(h.HandleBulkDelete)).
		Methods("POST")
	log.Printf("✅ POST /prs/notifications/bulk-delete endpoint registered")

	router.HandleFunc("/prs/notifications/bulk-mark-slack-sent", authMiddleware.WithAuth(h.HandleBulkMarkSlackSent)).
		Methods("POST")
	log.Printf("✅ POST /prs/notifications/bulk-mark-slack-sent endpoint registered")

	router.HandleFunc("/prs/stats", authMiddleware.WithAuth(h.HandleGetStats)).Methods("GET")
	log.Printf("✅ GET /prs/stats endpoint registered")

	router.HandleFunc("/prs/summary", authMiddleware.WithAuth(h.HandleGetSummary)).Methods("GET")
	log.Printf("✅ GET /prs/summary endpoint registered")

	router.HandleFunc("/prs/repositories", authMiddleware.WithAuth(h.HandleGetRepositories)).Methods("GET")
	log.Printf("✅ GET /prs/repositories endpoint registered")
}

func errInvalidFilter(name string) error {
	return fmt.Errorf("invalid %s parameter", name)
}

// parseNotificationFilters reads the supported list query parameters
func parseNotificationFilters(r *http.Request) (db.PRNotificationFilters, error) {
	var filters db.PRNotificationFilters
	query := r.URL.Query()

	if repo := query.Get("repo_name"); repo != "" {
		filters.RepoName = &repo
	}
	if status := query.Get("pr_status"); status != "" {
		filters.PRStatus = &status
	}
	if sent := query.Get("slack_sent"); sent != "" {
		parsed, err := strconv.ParseBool(sent)
		if err != nil {
			return filters, errInvalidFilter("slack_sent")
		}
		filters.SlackSent = &parsed
	}
	if since := query.Get("since"); since != "" {
		parsed, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return filters, errInvalidFilter("since")
		}
		filters.Since = &parsed
	}
	if limit := query.Get("limit"); limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil || parsed < 0 {
			return filters, errInvalidFilter("limit")
		}
		filters.Limit = parsed
	}
	if offset := query.Get("offset"); offset != "" {
		parsed, err := strconv.Atoi(offset)
		if err != nil || parsed < 0 {
			return filters, errInvalidFilter("offset")
		}
		filters.Offset = parsed
	}

	return filters, nil
}

func (h *PRNotificationsHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}
