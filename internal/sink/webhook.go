package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout is the budget for one notification send.
const DefaultTimeout = 10 * time.Second

// Webhook POSTs the message as JSON to a chat webhook endpoint.
// One attempt, no retry: a missed notification is recoverable noise, a
// retry storm against a chat API is not.
type Webhook struct {
	url    string
	client *http.Client
}

// WebhookOption configures a Webhook sink.
type WebhookOption func(*Webhook)

// WithWebhookClient sets a custom HTTP client.
func WithWebhookClient(c *http.Client) WebhookOption {
	return func(w *Webhook) { w.client = c }
}

// WithWebhookTimeout sets the request timeout on the default client.
func WithWebhookTimeout(d time.Duration) WebhookOption {
	return func(w *Webhook) { w.client.Timeout = d }
}

// NewWebhook creates a Webhook sink targeting the given URL.
func NewWebhook(url string, opts ...WebhookOption) *Webhook {
	w := &Webhook{
		url:    url,
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// payload is the single-field JSON body chat webhooks expect.
type payload struct {
	Content string `json:"content"`
}

func (w *Webhook) Send(ctx context.Context, message string) error {
	body, err := json.Marshal(payload{Content: message})
	if err != nil {
		return fmt.Errorf("webhook: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: do: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: status %d", resp.StatusCode)
	}
	return nil
}
