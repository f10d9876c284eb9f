package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"prremind/appctx"
	"prremind/core"
	"prremind/metrics"
	"prremind/middleware"
	"prremind/models/api"
	"prremind/services"
)

type RemindersHandler struct {
	remindersService services.RemindersService
	metricsColl      metrics.MetricsCollector
}

func NewRemindersHandler(remindersService services.RemindersService, metricsColl metrics.MetricsCollector) *RemindersHandler {
	return &RemindersHandler{
		remindersService: remindersService,
		metricsColl:      metricsColl,
	}
}

type ReminderSendResponse struct {
	Sent int `json:"sent"`
}

func (h *RemindersHandler) HandleSendMyReminders(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔔 Send-my-reminders request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}

	sent, err := h.remindersService.SendUserReminders(r.Context(), user.ID)
	if err != nil {
		if core.IsNotFoundError(err) {
			h.writeJSONResponse(w, http.StatusNotFound, api.ErrorResponse{Error: "no slack connection"})
			return
		}
		log.Printf("❌ Failed to send reminders: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError,
			api.ErrorResponse{Error: "failed to send reminders"})
		return
	}

	h.metricsColl.RecordRemindersSent("slack", sent)
	h.writeJSONResponse(w, http.StatusOK, ReminderSendResponse{Sent: sent})
}

func (h *RemindersHandler) HandleSendDailySummary(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔔 Send-daily-summary request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}

	if err := h.remindersService.SendDailySummary(r.Context(), user.ID); err != nil {
		if core.IsNotFoundError(err) {
			h.writeJSONResponse(w, http.StatusNotFound, api.ErrorResponse{Error: "no slack connection"})
			return
		}
		log.Printf("❌ Failed to send daily summary: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError,
			api.ErrorResponse{Error: "failed to send daily summary"})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "sent"})
}

// HandleTriggerAll kicks off a full sweep in the background and returns
// immediately, mirroring what the scheduler does on its own timer
func (h *RemindersHandler) HandleTriggerAll(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔔 Trigger-all-reminders request received from %s", r.RemoteAddr)

	if _, ok := appctx.GetUser(r.Context()); !ok {
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}

	go func() {
		sent, err := h.remindersService.SweepAll(context.Background())
		if err != nil {
			log.Printf("❌ Triggered reminder sweep failed: %v", err)
			return
		}
		h.metricsColl.RecordSweep()
		h.metricsColl.RecordRemindersSent("slack", sent)
	}()

	h.writeJSONResponse(w, http.StatusAccepted, map[string]string{"status": "sweep started"})
}

func (h *RemindersHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.SessionAuthMiddleware) {
	log.Printf("🚀 Registering reminder endpoints")

	router.HandleFunc("/reminders/send-my-reminders", authMiddleware.WithAuth(h.HandleSendMyReminders)).
		Methods("POST")
	log.Printf("✅ POST /reminders/send-my-reminders endpoint registered")

	router.HandleFunc("/reminders/send-daily-summary", authMiddleware.WithAuth(h.HandleSendDailySummary)).
		Methods("POST")
	log.Printf("✅ POST /reminders/send-daily-summary endpoint registered")

	router.HandleFunc("/reminders/trigger-all", authMiddleware.WithAuth(h.HandleTriggerAll)).Methods("POST")
	log.Printf("✅ POST /reminders/trigger-all endpoint registered")
}

func (h *RemindersHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}
