// Package email sends transactional HTML mail through the Resend HTTP API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the Resend API root.
const DefaultBaseURL = "https://api.resend.com"

// Message is a single HTML email.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Sender delivers a message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// SendError is returned when the provider rejects a message.
type SendError struct {
	StatusCode int
	Body       string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("email provider returned status %d: %s", e.StatusCode, e.Body)
}

// Client calls the Resend emails endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Resend client. An empty baseURL uses DefaultBaseURL.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendResponse struct {
	ID string `json:"id"`
}

// Send posts msg and returns the provider message id.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if len(msg.To) == 0 {
		return "", fmt.Errorf("email has no recipients")
	}

	jsonBody, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call email provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &SendError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out sendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse email provider response: %w", err)
	}
	return out.ID, nil
}
