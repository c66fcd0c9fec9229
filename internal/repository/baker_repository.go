package repository

import (
	"context"
	"fmt"
	"time"

	"bakebot/internal/domain"
	"bakebot/pkg/database"
	"github.com/jackc/pgx/v5"
)

const bakerColumns = `id, email, business_name, is_premium, plan_type, trial_ends_at,
	referral_code, email_leads, order_updates, created_at, updated_at`

// bakerRepository handles baker accounts in PostgreSQL
type bakerRepository struct {
	db *database.PostgresDB
}

// NewBakerRepository creates a new baker repository
func NewBakerRepository(db *database.PostgresDB) BakerRepository {
	return &bakerRepository{db: db}
}

func scanBaker(row pgx.Row) (*domain.Baker, error) {
	b := &domain.Baker{}
	err := row.Scan(
		&b.ID,
		&b.Email,
		&b.BusinessName,
		&b.IsPremium,
		&b.PlanType,
		&b.TrialEndsAt,
		&b.ReferralCode,
		&b.EmailLeads,
		&b.OrderUpdates,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetByID retrieves a baker by id
func (r *bakerRepository) GetByID(ctx context.Context, id string) (*domain.Baker, error) {
	query := `SELECT ` + bakerColumns + ` FROM bakers WHERE id = $1`

	b, err := scanBaker(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get baker: %w", err)
	}
	return b, nil
}

// GetByReferralCode retrieves the baker owning a referral code
func (r *bakerRepository) GetByReferralCode(ctx context.Context, code string) (*domain.Baker, error) {
	query := `SELECT ` + bakerColumns + ` FROM bakers WHERE referral_code = $1`

	b, err := scanBaker(r.db.GetReadPool().QueryRow(ctx, query, code))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get baker by referral code: %w", err)
	}
	return b, nil
}

// Create inserts a new baker. Concurrent first requests for the same user
// race here, so an existing row is left untouched.
func (r *bakerRepository) Create(ctx context.Context, baker *domain.Baker) error {
	query := `
		INSERT INTO bakers (id, email, business_name, trial_ends_at, email_leads, order_updates, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (id) DO NOTHING
	`

	now := time.Now().UTC()
	_, err := r.db.Pool.Exec(ctx, query,
		baker.ID,
		baker.Email,
		baker.BusinessName,
		baker.TrialEndsAt,
		baker.EmailLeads,
		baker.OrderUpdates,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create baker: %w", err)
	}

	baker.CreatedAt = now
	baker.UpdatedAt = now
	return nil
}

// UpdateSettings stores profile and notification settings
func (r *bakerRepository) UpdateSettings(ctx context.Context, id string, settings domain.AccountSettings) error {
	query := `
		UPDATE bakers
		SET business_name = $2, email_leads = $3, order_updates = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, settings.BusinessName, settings.EmailLeads, settings.OrderUpdates)
	if err != nil {
		return fmt.Errorf("failed to update baker settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ActivatePlan marks the baker as premium on the given plan
func (r *bakerRepository) ActivatePlan(ctx context.Context, id, plan string) error {
	query := `
		UPDATE bakers
		SET is_premium = TRUE, plan_type = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, plan)
	if err != nil {
		return fmt.Errorf("failed to activate plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetReferralCode assigns a referral code if the baker has none yet
func (r *bakerRepository) SetReferralCode(ctx context.Context, id, code string) error {
	query := `
		UPDATE bakers
		SET referral_code = $2, updated_at = NOW()
		WHERE id = $1 AND referral_code IS NULL
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, code)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to set referral code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
