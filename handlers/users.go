package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"prremind/appctx"
	"prremind/middleware"
	"prremind/models/api"
)

type UsersHandler struct{}

func NewUsersHandler() *UsersHandler {
	return &UsersHandler{}
}

func (h *UsersHandler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	log.Printf("👤 Current user request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.DomainUserToAPIUser(user))
}

func (h *UsersHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.SessionAuthMiddleware) {
	log.Printf("🚀 Registering user endpoints")

	router.HandleFunc("/users/me", authMiddleware.WithAuth(h.HandleGetMe)).Methods("GET")
	log.Printf("✅ GET /users/me endpoint registered")
}

func (h *UsersHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}
