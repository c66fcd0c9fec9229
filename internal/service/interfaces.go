package service

import (
	"context"
	"time"

	"bakebot/internal/domain"
	"bakebot/pkg/pricing"
)

// AuthService verifies session tokens
type AuthService interface {
	// ValidateToken verifies a Supabase access token and returns its user
	ValidateToken(ctx context.Context, token string) (*domain.AuthUser, error)
}

// AccountService manages baker accounts, plans and referral codes
type AccountService interface {
	// EnsureBaker returns the caller's baker row, creating it with a fresh trial on first access
	EnsureBaker(ctx context.Context, user *domain.AuthUser) (*domain.Baker, error)

	GetAccount(ctx context.Context, user *domain.AuthUser) (*domain.Account, error)
	UpdateSettings(ctx context.Context, user *domain.AuthUser, settings domain.AccountSettings) (*domain.Account, error)
	ActivatePlan(ctx context.Context, user *domain.AuthUser, plan string) error
	GetReferrals(ctx context.Context, user *domain.AuthUser) (*domain.ReferralSummary, error)
	ClaimReferral(ctx context.Context, user *domain.AuthUser, code string) error
}

// FeedbackService handles the beta feedback widget and daily survey
type FeedbackService interface {
	SubmitFeedback(ctx context.Context, user *domain.AuthUser, req domain.FeedbackRequest) (*domain.Feedback, error)
	ListFeedback(ctx context.Context) ([]*domain.Feedback, error)
	SubmitSurvey(ctx context.Context, user *domain.AuthUser, req domain.SurveyRequest) (*domain.SurveyResponse, error)
	SurveyStatus(ctx context.Context, user *domain.AuthUser) (*domain.SurveyStatus, error)
}

// AnalyticsService records tracker events and serves the admin views
type AnalyticsService interface {
	RecordEvent(ctx context.Context, user *domain.AuthUser, req domain.EventRequest) (*domain.AnalyticsEvent, error)
	BrokenClicks(ctx context.Context, limit int) ([]*domain.AnalyticsEvent, error)
	AdminSummary(ctx context.Context) (*domain.AdminSummary, error)
}

// DesignService handles mockup generation, quotes and saved designs
type DesignService interface {
	GenerateMockup(ctx context.Context, prompt string) (string, error)
	Quote(cfg pricing.Configuration) *domain.Quote
	ListDesigns(ctx context.Context, bakerID string) ([]*domain.CakeDesign, error)
	CreateDesign(ctx context.Context, bakerID string, req domain.DesignRequest) (*domain.CakeDesign, error)
	DeleteDesign(ctx context.Context, bakerID, id string) error

	// CreateOrderFromDesign starts a draft order priced from the design's quote
	CreateOrderFromDesign(ctx context.Context, bakerID, designID string) (*domain.Order, error)
}

// OrderService manages orders and the production schedule derived from them
type OrderService interface {
	ListOrders(ctx context.Context, bakerID string) ([]*domain.Order, error)
	CreateOrder(ctx context.Context, bakerID string, req domain.OrderRequest) (*domain.Order, error)
	UpdateOrder(ctx context.Context, bakerID, id string, req domain.OrderRequest) (*domain.Order, error)
	DeleteOrder(ctx context.Context, bakerID, id string) error
	Production(ctx context.Context, bakerID string, day time.Time) (*domain.ProductionSchedule, error)
}

// MarketingService handles the public waitlist and referral link tracking
type MarketingService interface {
	JoinWaitlist(ctx context.Context, req domain.WaitlistRequest) (*domain.WaitlistSignup, error)
	WaitlistStats(ctx context.Context) (*domain.WaitlistStats, error)
	TrackReferral(ctx context.Context, code, ipAddress, userAgent string) error
}

// ReportService builds and emails the owner reports
type ReportService interface {
	DailyReport(ctx context.Context) (*domain.DailyReport, error)
	TractionReport(ctx context.Context) (*domain.TractionReport, error)

	// Start runs the report schedule until Stop is called
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Services aggregates all service interfaces
type Services struct {
	Auth      AuthService
	Account   AccountService
	Feedback  FeedbackService
	Analytics AnalyticsService
	Design    DesignService
	Order     OrderService
	Marketing MarketingService
	Report    ReportService
}
