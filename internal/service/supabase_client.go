package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bakebot/internal/config"
	"bakebot/internal/domain"
	"bakebot/pkg/logger"
)

// ErrSessionRejected is returned when Supabase Auth does not accept a token
var ErrSessionRejected = errors.New("supabase rejected the session")

// supabaseUser is the subset of the /auth/v1/user response we read
type supabaseUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Role         string                 `json:"role"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

// SupabaseClient talks to the Supabase Auth REST API. It verifies sessions
// for projects that sign tokens with asymmetric keys, where no shared JWT
// secret is available.
type SupabaseClient struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewSupabaseClient creates a new Supabase client
func NewSupabaseClient(cfg *config.Config, logger *logger.Logger) *SupabaseClient {
	return &SupabaseClient{
		baseURL: strings.TrimRight(cfg.SupabaseURL, "/"),
		anonKey: cfg.SupabaseAnonKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Configured reports whether the project URL and anon key are set
func (s *SupabaseClient) Configured() bool {
	return s != nil && s.baseURL != "" && s.anonKey != ""
}

// GetUser resolves an access token to its user through GET /auth/v1/user
func (s *SupabaseClient) GetUser(ctx context.Context, accessToken string) (*domain.AuthUser, error) {
	url := fmt.Sprintf("%s/auth/v1/user", s.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Supabase auth: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrSessionRejected
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Supabase auth returned status %d: %s", resp.StatusCode, string(body))
	}

	var user supabaseUser
	if err := json.Unmarshal(body, &user); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"response_body": string(body),
			"status_code":   resp.StatusCode,
		}).Error("Failed to parse Supabase response")
		return nil, fmt.Errorf("failed to parse Supabase response: %w", err)
	}
	if user.ID == "" {
		return nil, ErrSessionRejected
	}

	email := user.Email
	if email == "" {
		if v, ok := user.UserMetadata["email"].(string); ok {
			email = v
		}
	}

	s.logger.WithField("user_id", user.ID).Debug("Session verified with Supabase Auth")
	return &domain.AuthUser{ID: user.ID, Email: email, Role: user.Role}, nil
}
