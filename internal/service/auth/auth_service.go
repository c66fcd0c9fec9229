package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"bakebot/internal/domain"
	"bakebot/internal/service"
	"bakebot/pkg/errors"
	"bakebot/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
)

// UserFetcher resolves an access token through the Supabase Auth API
type UserFetcher interface {
	GetUser(ctx context.Context, accessToken string) (*domain.AuthUser, error)
}

// Service implements the AuthService interface for Supabase sessions
type Service struct {
	jwtSecret []byte
	remote    UserFetcher
	logger    *logger.Logger
}

// NewService creates a new auth service. Supabase signs access tokens with
// the project's JWT secret using HS256; when no secret is configured tokens
// are checked against Supabase Auth through remote instead.
func NewService(jwtSecret string, remote UserFetcher, logger *logger.Logger) service.AuthService {
	return &Service{
		jwtSecret: []byte(jwtSecret),
		remote:    remote,
		logger:    logger,
	}
}

// ValidateToken validates a Supabase JWT with signature verification
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*domain.AuthUser, error) {
	tokenString = strings.TrimSpace(tokenString)
	if !isJWTToken(tokenString) {
		return nil, errors.NewAuthenticationError("Unrecognized token format")
	}

	if len(s.jwtSecret) == 0 {
		if s.remote != nil {
			return s.validateRemote(ctx, tokenString)
		}
		s.logger.Error("SUPABASE_JWT_SECRET not configured")
		return nil, errors.NewAuthenticationError("JWT validation not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Verify the signing algorithm
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		s.logger.WithError(err).Debug("Failed to parse/validate JWT token")
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.NewAuthenticationError("Token has expired")
		}
		return nil, errors.NewAuthenticationError("Invalid JWT token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.NewAuthenticationError("Invalid JWT token")
	}

	user := &domain.AuthUser{
		ID:    getStringValue(claims, "sub"),
		Email: getStringValue(claims, "email"),
		Role:  getStringValue(claims, "role"),
	}

	// Fall back to user_metadata for accounts created through OAuth providers
	if user.Email == "" {
		if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
			user.Email = getStringValue(meta, "email")
		}
	}

	if user.ID == "" {
		s.logger.Warn("No user identifier found in JWT token")
		return nil, errors.NewAuthenticationError("Invalid JWT token: no user identifier")
	}

	s.logger.WithField("user_id", user.ID).Debug("Supabase JWT token validated successfully")
	return user, nil
}

func (s *Service) validateRemote(ctx context.Context, tokenString string) (*domain.AuthUser, error) {
	user, err := s.remote.GetUser(ctx, tokenString)
	if err != nil {
		if stderrors.Is(err, service.ErrSessionRejected) {
			return nil, errors.NewAuthenticationError("Invalid or expired session")
		}
		s.logger.WithError(err).Error("Supabase Auth lookup failed")
		return nil, errors.NewExternalError("Authentication service unavailable", 0, err)
	}
	return user, nil
}

func isJWTToken(token string) bool {
	// JWT tokens have exactly 3 non-empty segments separated by dots
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// getStringValue safely extracts a string claim
func getStringValue(m map[string]interface{}, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}
