package repository

import (
	"context"
	"fmt"

	"bakebot/internal/domain"
	"bakebot/pkg/database"
	"github.com/google/uuid"
)

// referralRepository handles referrals and referral link clicks
type referralRepository struct {
	db *database.PostgresDB
}

// NewReferralRepository creates a new referral repository
func NewReferralRepository(db *database.PostgresDB) ReferralRepository {
	return &referralRepository{db: db}
}

// Create records that a user signed up through a referrer
func (r *referralRepository) Create(ctx context.Context, referral *domain.Referral) error {
	query := `
		INSERT INTO referrals (id, referrer_id, referred_email, referred_user_id, referral_code, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	if referral.ID == "" {
		referral.ID = uuid.NewString()
	}
	err := r.db.Pool.QueryRow(ctx, query,
		referral.ID,
		referral.ReferrerID,
		referral.ReferredEmail,
		referral.ReferredUserID,
		referral.ReferralCode,
		referral.Status,
	).Scan(&referral.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create referral: %w", err)
	}
	return nil
}

// CountByReferrer counts referrals credited to a baker
func (r *referralRepository) CountByReferrer(ctx context.Context, referrerID string) (int, error) {
	var count int
	err := r.db.GetReadPool().QueryRow(ctx,
		`SELECT COUNT(*) FROM referrals WHERE referrer_id = $1`, referrerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count referrals: %w", err)
	}
	return count, nil
}

// ExistsForUser reports whether a user has already been referred
func (r *referralRepository) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM referrals WHERE referred_user_id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check referral: %w", err)
	}
	return exists, nil
}

// CreateClick records a visit through a referral link
func (r *referralRepository) CreateClick(ctx context.Context, click *domain.ReferralClick) error {
	query := `
		INSERT INTO referral_clicks (id, referral_code, referrer_id, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	if click.ID == "" {
		click.ID = uuid.NewString()
	}
	err := r.db.Pool.QueryRow(ctx, query,
		click.ID,
		click.ReferralCode,
		click.ReferrerID,
		click.IPAddress,
		click.UserAgent,
	).Scan(&click.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create referral click: %w", err)
	}
	return nil
}
