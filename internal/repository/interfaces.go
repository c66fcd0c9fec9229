package repository

import (
	"context"
	"errors"
	"time"

	"bakebot/internal/domain"
)

// ErrNotFound is returned when a scoped update or delete matched no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("record already exists")

// BakerRepository defines the interface for baker account operations
type BakerRepository interface {
	// GetByID returns nil, nil when the baker does not exist
	GetByID(ctx context.Context, id string) (*domain.Baker, error)

	// GetByReferralCode returns nil, nil when no baker owns the code
	GetByReferralCode(ctx context.Context, code string) (*domain.Baker, error)

	// Create inserts the baker unless a row with the same id already exists
	Create(ctx context.Context, baker *domain.Baker) error

	UpdateSettings(ctx context.Context, id string, settings domain.AccountSettings) error
	ActivatePlan(ctx context.Context, id, plan string) error

	// SetReferralCode returns ErrDuplicate when the code is taken
	SetReferralCode(ctx context.Context, id, code string) error
}

// ReferralRepository defines referral and referral click operations
type ReferralRepository interface {
	Create(ctx context.Context, referral *domain.Referral) error
	CountByReferrer(ctx context.Context, referrerID string) (int, error)
	ExistsForUser(ctx context.Context, userID string) (bool, error)
	CreateClick(ctx context.Context, click *domain.ReferralClick) error
}

// OrderRepository defines order operations. Every call is scoped by baker id.
type OrderRepository interface {
	ListByBaker(ctx context.Context, bakerID string) ([]*domain.Order, error)
	GetByID(ctx context.Context, bakerID, id string) (*domain.Order, error)
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, bakerID, id string) error

	// ListDeliveringBetween returns orders with a delivery date in [from, to)
	ListDeliveringBetween(ctx context.Context, bakerID string, from, to time.Time) ([]*domain.Order, error)
}

// DesignRepository defines saved cake design operations
type DesignRepository interface {
	ListByBaker(ctx context.Context, bakerID string) ([]*domain.CakeDesign, error)
	GetByID(ctx context.Context, bakerID, id string) (*domain.CakeDesign, error)
	Create(ctx context.Context, design *domain.CakeDesign) error
	Delete(ctx context.Context, bakerID, id string) error
}

// FeedbackRepository defines feedback widget operations
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) error

	// List returns feedback newest first; limit <= 0 returns everything
	List(ctx context.Context, limit int) ([]*domain.Feedback, error)
	Count(ctx context.Context) (int, error)
	AverageRating(ctx context.Context) (float64, error)
}

// SurveyRepository defines daily survey operations
type SurveyRepository interface {
	Create(ctx context.Context, response *domain.SurveyResponse) error
	CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error)
	ListSince(ctx context.Context, since time.Time) ([]*domain.SurveyResponse, error)
}

// AnalyticsRepository defines analytics event operations
type AnalyticsRepository interface {
	Create(ctx context.Context, event *domain.AnalyticsEvent) error
	Count(ctx context.Context) (int, error)
	CountDeadClicks(ctx context.Context) (int, error)
	ListDeadClicks(ctx context.Context, limit int) ([]*domain.AnalyticsEvent, error)

	// ActivitySince returns the number of events and distinct users since the given time
	ActivitySince(ctx context.Context, since time.Time) (events int, uniqueUsers int, err error)
}

// WaitlistRepository defines marketing waitlist operations
type WaitlistRepository interface {
	// Create returns ErrDuplicate when the email is already on the list
	Create(ctx context.Context, signup *domain.WaitlistSignup) error
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role string) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	MostRecent(ctx context.Context) (*time.Time, error)

	// ListAll returns every signup newest first
	ListAll(ctx context.Context) ([]*domain.WaitlistSignup, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Baker     BakerRepository
	Referral  ReferralRepository
	Order     OrderRepository
	Design    DesignRepository
	Feedback  FeedbackRepository
	Survey    SurveyRepository
	Analytics AnalyticsRepository
	Waitlist  WaitlistRepository
}
