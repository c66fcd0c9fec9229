package service

import (
	"context"
	stderrors "errors"
	"math"
	"regexp"
	"strings"
	"time"

	"bakebot/internal/domain"
	"bakebot/internal/repository"
	"bakebot/pkg/errors"
	"bakebot/pkg/logger"
	"golang.org/x/sync/errgroup"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	maxWaitlistSourceRunes = 100
	unknownClient          = "unknown"
)

type marketingService struct {
	waitlist  repository.WaitlistRepository
	bakers    repository.BakerRepository
	referrals repository.ReferralRepository
	cache     *CacheService
	logger    *logger.Logger
	now       func() time.Time
}

// NewMarketingService creates the waitlist and referral tracking service
func NewMarketingService(waitlist repository.WaitlistRepository, bakers repository.BakerRepository, referrals repository.ReferralRepository, cache *CacheService, log *logger.Logger) MarketingService {
	return &marketingService{
		waitlist:  waitlist,
		bakers:    bakers,
		referrals: referrals,
		cache:     cache,
		logger:    log,
		now:       time.Now,
	}
}

func (s *marketingService) JoinWaitlist(ctx context.Context, req domain.WaitlistRequest) (*domain.WaitlistSignup, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, errors.NewValidationError("Email is required", nil)
	}
	if !emailPattern.MatchString(email) {
		return nil, errors.NewValidationError("Invalid email format", nil)
	}

	role := req.Role
	if role == "" {
		role = domain.RoleCurious
	}
	if !domain.IsValidRole(role) {
		return nil, errors.NewValidationError("Invalid role", map[string]interface{}{"role": req.Role})
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = domain.DefaultWaitlistSource
	}
	source = truncateRunes(source, maxWaitlistSourceRunes)

	signup := &domain.WaitlistSignup{Email: email, Role: role, Source: source}
	err := s.waitlist.Create(ctx, signup)
	if stderrors.Is(err, repository.ErrDuplicate) {
		return nil, errors.NewConflictError("This email is already on the waitlist")
	}
	if err != nil {
		return nil, errors.NewInternalError("Internal server error", err)
	}

	s.cache.InvalidateWaitlistStats(ctx)

	s.logger.WithFields(map[string]interface{}{
		"signup_id": signup.ID,
		"role":      role,
		"source":    source,
	}).Info("Waitlist signup")
	return signup, nil
}

func percentOf(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func (s *marketingService) WaitlistStats(ctx context.Context) (*domain.WaitlistStats, error) {
	stats, err := s.cache.GetWaitlistStatsWithCache(ctx, s.loadWaitlistStats)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load waitlist stats", err)
	}
	return stats, nil
}

func (s *marketingService) loadWaitlistStats(ctx context.Context) (*domain.WaitlistStats, error) {
	now := s.now().UTC()
	stats := &domain.WaitlistStats{Timestamp: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalSignups, err = s.waitlist.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.BakerCount, err = s.waitlist.CountByRole(gctx, domain.RoleBaker)
		return err
	})
	g.Go(func() (err error) {
		stats.CustomerCount, err = s.waitlist.CountByRole(gctx, domain.RoleCustomer)
		return err
	})
	g.Go(func() (err error) {
		stats.CuriousCount, err = s.waitlist.CountByRole(gctx, domain.RoleCurious)
		return err
	})
	g.Go(func() (err error) {
		stats.Last24hSignups, err = s.waitlist.CountSince(gctx, now.Add(-24*time.Hour))
		return err
	})
	g.Go(func() (err error) {
		stats.Last7dSignups, err = s.waitlist.CountSince(gctx, now.Add(-7*24*time.Hour))
		return err
	})
	g.Go(func() (err error) {
		stats.MostRecentSignup, err = s.waitlist.MostRecent(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.BreakdownPercentage = domain.WaitlistBreakdown{
		Bakers:    percentOf(stats.BakerCount, stats.TotalSignups),
		Customers: percentOf(stats.CustomerCount, stats.TotalSignups),
		Curious:   percentOf(stats.CuriousCount, stats.TotalSignups),
	}
	return stats, nil
}

func (s *marketingService) TrackReferral(ctx context.Context, code, ipAddress, userAgent string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.NewValidationError("Referral code is required", nil)
	}

	referrer, err := s.bakers.GetByReferralCode(ctx, code)
	if err != nil {
		return errors.NewInternalError("Internal server error", err)
	}
	if referrer == nil {
		return errors.NewNotFoundError("Invalid referral code")
	}

	if ipAddress == "" {
		ipAddress = unknownClient
	}
	if userAgent == "" {
		userAgent = unknownClient
	}

	if err := s.referrals.CreateClick(ctx, &domain.ReferralClick{
		ReferralCode: code,
		ReferrerID:   referrer.ID,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
	}); err != nil {
		return errors.NewInternalError("Internal server error", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"referrer_id": referrer.ID,
		"ip":          ipAddress,
	}).Debug("Referral click tracked")
	return nil
}
