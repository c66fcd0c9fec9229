// Package imagegen calls a Stability-style text-to-image API. Each request is
// a single attempt; failures are returned to the caller unchanged.
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.stability.ai/v1"
	DefaultModel   = "stable-diffusion-xl-1024-v1-0"

	negativePrompt = "blurry, distorted, low quality, text, watermark, messy"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("image generation api key is not configured")

// ProviderError carries a non-2xx response from the provider.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("image provider returned status %d: %s", e.StatusCode, e.Message)
}

type textPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type textToImageRequest struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	CfgScale    int          `json:"cfg_scale"`
	Height      int          `json:"height"`
	Width       int          `json:"width"`
	Steps       int          `json:"steps"`
	Samples     int          `json:"samples"`
}

type textToImageResponse struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		Seed         int64  `json:"seed"`
		FinishReason string `json:"finishReason"`
	} `json:"artifacts"`
}

// Client generates cake mockups.
type Client struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// NewClient fills in defaults for empty baseURL and model.
func NewClient(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		APIKey:     apiKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Model:      model,
		HTTPClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c != nil && strings.TrimSpace(c.APIKey) != ""
}

// Generate renders prompt and returns the first image as a PNG data URL.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt is required")
	}

	payload := textToImageRequest{
		TextPrompts: []textPrompt{
			{Text: prompt, Weight: 1},
			{Text: negativePrompt, Weight: -1},
		},
		CfgScale: 7,
		Height:   1024,
		Width:    1024,
		Steps:    30,
		Samples:  1,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/generation/%s/text-to-image", c.BaseURL, c.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	var parsed textToImageResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Artifacts) == 0 || parsed.Artifacts[0].Base64 == "" {
		return "", fmt.Errorf("response contained no image")
	}

	return "data:image/png;base64," + parsed.Artifacts[0].Base64, nil
}
