package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const sendTimeout = 10 * time.Second

// WebhookClient posts JSON payloads to user-configured webhook URLs
type WebhookClient interface {
	Send(ctx context.Context, url string, payload any) error
}

// Client implements WebhookClient with a plain HTTP POST
type Client struct {
	httpClient *http.Client
}

func NewWebhookClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: sendTimeout},
	}
}

func (c *Client) Send(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}

	return nil
}

// MockWebhookClient implements WebhookClient for testing
type MockWebhookClient struct {
	MockSend func(ctx context.Context, url string, payload any) error

	SentPayloads []any
}

func NewMockWebhookClient() *MockWebhookClient {
	return &MockWebhookClient{}
}

func (m *MockWebhookClient) Send(ctx context.Context, url string, payload any) error {
	m.SentPayloads = append(m.SentPayloads, payload)
	if m.MockSend != nil {
		return m.MockSend(ctx, url, payload)
	}
	return nil
}
