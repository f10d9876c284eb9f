package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"prremind/appctx"
	"prremind/clients/google"
	"prremind/metrics"
	"prremind/middleware"
	"prremind/models/api"
	"prremind/usecases/auth"
)

type AuthHandler struct {
	authUseCase *auth.AuthUseCase
	metricsColl metrics.MetricsCollector
}

func NewAuthHandler(authUseCase *auth.AuthUseCase, metricsColl metrics.MetricsCollector) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		metricsColl: metricsColl,
	}
}

// TokenExchangeRequest is the body for the programmatic token endpoint
type TokenExchangeRequest struct {
	Code             string `json:"code"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔐 Google login request received from %s", r.RemoteAddr)

	authURL, err := h.authUseCase.Initiate()
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrConfigMissing):
			h.writeJSONResponse(w, http.StatusInternalServerError,
				api.ErrorResponse{Error: "google sign-in is not configured"})
		case errors.Is(err, auth.ErrConfigInvalid):
			h.writeJSONResponse(w, http.StatusBadRequest,
				api.ErrorResponse{Error: "google sign-in is misconfigured"})
		default:
			h.writeJSONResponse(w, http.StatusInternalServerError,
				api.ErrorResponse{Error: "failed to start google sign-in"})
		}
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔐 Google callback request received from %s", r.RemoteAddr)

	query := r.URL.Query()
	params := auth.CallbackParams{
		Code:             query.Get("code"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	}

	redirect, loggedIn := h.authUseCase.HandleCallback(r.Context(), params)
	if loggedIn {
		h.metricsColl.RecordLogin()
	}
	http.Redirect(w, r, redirect, http.StatusFound)
}

func (h *AuthHandler) HandleTokenExchange(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔐 Programmatic token exchange request received from %s", r.RemoteAddr)

	var req TokenExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to decode token exchange request: %v", err)
		h.writeJSONResponse(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	resp, err := h.authUseCase.ExchangeForAPIClient(r.Context(), auth.CallbackParams{
		Code:             req.Code,
		Error:            req.Error,
		ErrorDescription: req.ErrorDescription,
	})
	if err != nil {
		var provErr *google.ProviderError
		if errors.As(err, &provErr) {
			log.Printf("⚠️ Provider rejected token exchange: %v", provErr)
			h.writeJSONResponse(w, http.StatusBadRequest, api.ErrorResponse{Error: provErr.Error()})
			return
		}
		log.Printf("❌ Token exchange failed: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError,
			api.ErrorResponse{Error: "authentication failed"})
		return
	}

	h.metricsColl.RecordLogin()
	h.writeJSONResponse(w, http.StatusOK, resp)
}

func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔐 Token refresh request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		h.writeJSONResponse(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthenticated"})
		return
	}

	resp, err := h.authUseCase.Refresh(user)
	if err != nil {
		log.Printf("❌ Failed to refresh session: %v", err)
		h.writeJSONResponse(w, http.StatusInternalServerError,
			api.ErrorResponse{Error: "failed to refresh session"})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, resp)
}

func (h *AuthHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.SessionAuthMiddleware) {
	log.Printf("🚀 Registering auth endpoints")

	router.HandleFunc("/google/login", h.HandleGoogleLogin).Methods("GET")
	log.Printf("✅ GET /google/login endpoint registered")

	router.HandleFunc("/google/callback", h.HandleGoogleCallback).Methods("GET")
	log.Printf("✅ GET /google/callback endpoint registered")

	router.HandleFunc("/google/token", h.HandleTokenExchange).Methods("POST")
	log.Printf("✅ POST /google/token endpoint registered")

	router.HandleFunc("/refresh", authMiddleware.WithAuth(h.HandleRefresh)).Methods("POST")
	log.Printf("✅ POST /refresh endpoint registered")
}

func (h *AuthHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}
