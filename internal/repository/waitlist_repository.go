package repository

import (
	"context"
	"fmt"
	"time"

	"bakebot/internal/domain"
	"bakebot/pkg/database"
	"github.com/google/uuid"
)

// waitlistRepository handles marketing waitlist signups
type waitlistRepository struct {
	db *database.PostgresDB
}

// NewWaitlistRepository creates a new waitlist repository
func NewWaitlistRepository(db *database.PostgresDB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

// Create inserts a signup
func (r *waitlistRepository) Create(ctx context.Context, s *domain.WaitlistSignup) error {
	query := `
		INSERT INTO waitlist_signups (id, email, role, source)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	err := r.db.Pool.QueryRow(ctx, query, s.ID, s.Email, s.Role, s.Source).Scan(&s.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create waitlist signup: %w", err)
	}
	return nil
}

// Count returns the total number of signups
func (r *waitlistRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM waitlist_signups`)
}

// CountByRole returns the number of signups with a role
func (r *waitlistRepository) CountByRole(ctx context.Context, role string) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM waitlist_signups WHERE role = $1`, role)
}

// CountSince returns the number of signups since the given time
func (r *waitlistRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM waitlist_signups WHERE created_at >= $1`, since)
}

// MostRecent returns the latest signup time, or nil when the list is empty
func (r *waitlistRepository) MostRecent(ctx context.Context) (*time.Time, error) {
	var latest *time.Time
	err := r.db.GetReadPool().QueryRow(ctx, `SELECT MAX(created_at) FROM waitlist_signups`).Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("failed to get most recent signup: %w", err)
	}
	return latest, nil
}

// ListAll returns every signup newest first
func (r *waitlistRepository) ListAll(ctx context.Context) ([]*domain.WaitlistSignup, error) {
	rows, err := r.db.GetReadPool().Query(ctx,
		`SELECT id, email, role, source, created_at FROM waitlist_signups ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist signups: %w", err)
	}
	defer rows.Close()

	signups := make([]*domain.WaitlistSignup, 0)
	for rows.Next() {
		s := &domain.WaitlistSignup{}
		if err := rows.Scan(&s.ID, &s.Email, &s.Role, &s.Source, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan waitlist row: %w", err)
		}
		signups = append(signups, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating waitlist rows: %w", err)
	}
	return signups, nil
}
