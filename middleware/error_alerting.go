package middleware

import (
	"context"
	"crypto/md5"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"prremind/clients/webhook"
)

type AlertConfig struct {
	WebhookURL  string
	Environment string
	AppName     string
}

// ErrorAlertMiddleware recovers panics in HTTP handlers and background
// tasks and reports them to the alert webhook. Repeated occurrences of
// the same error are deduplicated with a cooldown so a crash loop does
// not flood the channel.
type ErrorAlertMiddleware struct {
	config        AlertConfig
	webhookClient webhook.WebhookClient
	alertedErrors map[string]time.Time
	mutex         sync.Mutex
	alertCooldown time.Duration
}

func NewErrorAlertMiddleware(config AlertConfig, webhookClient webhook.WebhookClient) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		webhookClient: webhookClient,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute,
	}
}

// HTTPMiddleware wraps the router so a panicking handler answers 500
// instead of tearing down the connection.
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				errorMsg := fmt.Sprintf("HTTP %s %s: PANIC - %v", r.Method, r.URL.Path, rec)
				log.Printf("❌ %s", errorMsg)
				m.alert(errorMsg)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"internal server error"}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// WrapBackgroundTask guards scheduler jobs the same way.
func (m *ErrorAlertMiddleware) WrapBackgroundTask(taskName string, task func() error) func() error {
	return func() error {
		defer func() {
			if rec := recover(); rec != nil {
				errorMsg := fmt.Sprintf("Background task %s: PANIC - %v", taskName, rec)
				log.Printf("❌ %s", errorMsg)
				m.alert(errorMsg)
			}
		}()
		if err := task(); err != nil {
			m.alert(fmt.Sprintf("Background task %s: %v", taskName, err))
			return err
		}
		return nil
	}
}

func (m *ErrorAlertMiddleware) alert(errorMsg string) {
	if m.config.WebhookURL == "" || m.webhookClient == nil {
		return
	}

	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	if lastAlert, exists := m.alertedErrors[hash]; exists && time.Since(lastAlert) < m.alertCooldown {
		m.mutex.Unlock()
		return
	}
	m.alertedErrors[hash] = time.Now()
	m.mutex.Unlock()

	payload := map[string]any{
		"event":       "service_error",
		"service":     m.config.AppName,
		"environment": m.config.Environment,
		"error":       errorMsg,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.webhookClient.Send(ctx, m.config.WebhookURL, payload); err != nil {
			log.Printf("❌ Failed to send error alert: %v", err)
		}
	}()
}
