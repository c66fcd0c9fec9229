package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"bakebot/internal/domain"
	"bakebot/pkg/pricing"
)

type MockAccountService struct{ mock.Mock }

func (m *MockAccountService) EnsureBaker(ctx context.Context, user *domain.AuthUser) (*domain.Baker, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Baker), args.Error(1)
}

func (m *MockAccountService) GetAccount(ctx context.Context, user *domain.AuthUser) (*domain.Account, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateSettings(ctx context.Context, user *domain.AuthUser, settings domain.AccountSettings) (*domain.Account, error) {
	args := m.Called(ctx, user, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ActivatePlan(ctx context.Context, user *domain.AuthUser, plan string) error {
	return m.Called(ctx, user, plan).Error(0)
}

func (m *MockAccountService) GetReferrals(ctx context.Context, user *domain.AuthUser) (*domain.ReferralSummary, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferralSummary), args.Error(1)
}

func (m *MockAccountService) ClaimReferral(ctx context.Context, user *domain.AuthUser, code string) error {
	return m.Called(ctx, user, code).Error(0)
}

type MockFeedbackService struct{ mock.Mock }

func (m *MockFeedbackService) SubmitFeedback(ctx context.Context, user *domain.AuthUser, req domain.FeedbackRequest) (*domain.Feedback, error) {
	args := m.Called(ctx, user, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Feedback), args.Error(1)
}

func (m *MockFeedbackService) ListFeedback(ctx context.Context) ([]*domain.Feedback, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Feedback), args.Error(1)
}

func (m *MockFeedbackService) SubmitSurvey(ctx context.Context, user *domain.AuthUser, req domain.SurveyRequest) (*domain.SurveyResponse, error) {
	args := m.Called(ctx, user, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SurveyResponse), args.Error(1)
}

func (m *MockFeedbackService) SurveyStatus(ctx context.Context, user *domain.AuthUser) (*domain.SurveyStatus, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SurveyStatus), args.Error(1)
}

type MockAnalyticsService struct{ mock.Mock }

func (m *MockAnalyticsService) RecordEvent(ctx context.Context, user *domain.AuthUser, req domain.EventRequest) (*domain.AnalyticsEvent, error) {
	args := m.Called(ctx, user, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalyticsEvent), args.Error(1)
}

func (m *MockAnalyticsService) BrokenClicks(ctx context.Context, limit int) ([]*domain.AnalyticsEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AnalyticsEvent), args.Error(1)
}

func (m *MockAnalyticsService) AdminSummary(ctx context.Context) (*domain.AdminSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminSummary), args.Error(1)
}

type MockDesignService struct{ mock.Mock }

func (m *MockDesignService) GenerateMockup(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockDesignService) Quote(cfg pricing.Configuration) *domain.Quote {
	return m.Called(cfg).Get(0).(*domain.Quote)
}

func (m *MockDesignService) ListDesigns(ctx context.Context, bakerID string) ([]*domain.CakeDesign, error) {
	args := m.Called(ctx, bakerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CakeDesign), args.Error(1)
}

func (m *MockDesignService) CreateDesign(ctx context.Context, bakerID string, req domain.DesignRequest) (*domain.CakeDesign, error) {
	args := m.Called(ctx, bakerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CakeDesign), args.Error(1)
}

func (m *MockDesignService) DeleteDesign(ctx context.Context, bakerID, id string) error {
	return m.Called(ctx, bakerID, id).Error(0)
}

func (m *MockDesignService) CreateOrderFromDesign(ctx context.Context, bakerID, designID string) (*domain.Order, error) {
	args := m.Called(ctx, bakerID, designID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) ListOrders(ctx context.Context, bakerID string) ([]*domain.Order, error) {
	args := m.Called(ctx, bakerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *MockOrderService) CreateOrder(ctx context.Context, bakerID string, req domain.OrderRequest) (*domain.Order, error) {
	args := m.Called(ctx, bakerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrder(ctx context.Context, bakerID, id string, req domain.OrderRequest) (*domain.Order, error) {
	args := m.Called(ctx, bakerID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, bakerID, id string) error {
	return m.Called(ctx, bakerID, id).Error(0)
}

func (m *MockOrderService) Production(ctx context.Context, bakerID string, day time.Time) (*domain.ProductionSchedule, error) {
	args := m.Called(ctx, bakerID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductionSchedule), args.Error(1)
}

type MockMarketingService struct{ mock.Mock }

func (m *MockMarketingService) JoinWaitlist(ctx context.Context, req domain.WaitlistRequest) (*domain.WaitlistSignup, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WaitlistSignup), args.Error(1)
}

func (m *MockMarketingService) WaitlistStats(ctx context.Context) (*domain.WaitlistStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WaitlistStats), args.Error(1)
}

func (m *MockMarketingService) TrackReferral(ctx context.Context, code, ipAddress, userAgent string) error {
	return m.Called(ctx, code, ipAddress, userAgent).Error(0)
}

type MockReportService struct{ mock.Mock }

func (m *MockReportService) DailyReport(ctx context.Context) (*domain.DailyReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyReport), args.Error(1)
}

func (m *MockReportService) TractionReport(ctx context.Context) (*domain.TractionReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TractionReport), args.Error(1)
}

func (m *MockReportService) Start(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockReportService) Stop(ctx context.Context) error  { return m.Called(ctx).Error(0) }
