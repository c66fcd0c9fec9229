package service

import (
	"context"
	"crypto/rand"
	stderrors "errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"bakebot/internal/domain"
	"bakebot/internal/repository"
	"bakebot/pkg/errors"
	"bakebot/pkg/logger"
	"bakebot/pkg/trial"
)

const (
	referralCodeLength   = 6
	referralCodeAttempts = 5
	referralCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	maxBusinessNameRunes = 100

	// RewardMonthsPerReferral is the free time credited for each referred signup
	RewardMonthsPerReferral = 1
)

type accountService struct {
	bakers    repository.BakerRepository
	referrals repository.ReferralRepository
	appURL    string
	logger    *logger.Logger
	now       func() time.Time
	newCode   func() (string, error)
}

// NewAccountService creates the baker account service
func NewAccountService(bakers repository.BakerRepository, referrals repository.ReferralRepository, appURL string, log *logger.Logger) AccountService {
	return &accountService{
		bakers:    bakers,
		referrals: referrals,
		appURL:    strings.TrimRight(appURL, "/"),
		logger:    log,
		now:       time.Now,
		newCode:   generateReferralCode,
	}
}

// generateReferralCode returns six uppercase base-36 characters
func generateReferralCode() (string, error) {
	buf := make([]byte, referralCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = referralCodeAlphabet[int(b)%len(referralCodeAlphabet)]
	}
	return string(buf), nil
}

func (s *accountService) EnsureBaker(ctx context.Context, user *domain.AuthUser) (*domain.Baker, error) {
	if user == nil || user.ID == "" {
		return nil, errors.NewAuthenticationError("Unauthorized")
	}

	baker, err := s.bakers.GetByID(ctx, user.ID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load account", err)
	}
	if baker != nil {
		return baker, nil
	}

	now := s.now().UTC()
	endsAt := trial.EndsAt(now)
	if err := s.bakers.Create(ctx, &domain.Baker{
		ID:           user.ID,
		Email:        user.Email,
		TrialEndsAt:  &endsAt,
		EmailLeads:   true,
		OrderUpdates: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return nil, errors.NewInternalError("Failed to create account", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"baker_id":      user.ID,
		"trial_ends_at": endsAt,
	}).Info("Created baker account")

	// Re-read so a concurrent first request sees the same row.
	baker, err = s.bakers.GetByID(ctx, user.ID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load account", err)
	}
	if baker == nil {
		return nil, errors.NewInternalError("Failed to load account", fmt.Errorf("baker %s missing after create", user.ID))
	}
	return baker, nil
}

func (s *accountService) GetAccount(ctx context.Context, user *domain.AuthUser) (*domain.Account, error) {
	baker, err := s.EnsureBaker(ctx, user)
	if err != nil {
		return nil, err
	}
	return &domain.Account{
		Baker: baker,
		Trial: trial.Calculate(baker.TrialEndsAt, s.now()),
	}, nil
}

func (s *accountService) UpdateSettings(ctx context.Context, user *domain.AuthUser, settings domain.AccountSettings) (*domain.Account, error) {
	settings.BusinessName = strings.TrimSpace(settings.BusinessName)
	if utf8.RuneCountInString(settings.BusinessName) > maxBusinessNameRunes {
		return nil, errors.NewValidationError("Business name is too long", map[string]interface{}{
			"max_length": maxBusinessNameRunes,
		})
	}

	baker, err := s.EnsureBaker(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.bakers.UpdateSettings(ctx, baker.ID, settings); err != nil {
		return nil, errors.NewInternalError("Failed to update settings", err)
	}
	return s.GetAccount(ctx, user)
}

func (s *accountService) ActivatePlan(ctx context.Context, user *domain.AuthUser, plan string) error {
	if !domain.IsValidPlan(plan) {
		return errors.NewValidationError("Invalid plan", map[string]interface{}{"plan": plan})
	}

	baker, err := s.EnsureBaker(ctx, user)
	if err != nil {
		return err
	}
	if err := s.bakers.ActivatePlan(ctx, baker.ID, plan); err != nil {
		return errors.NewInternalError("Failed to activate plan", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"baker_id": baker.ID,
		"plan":     plan,
	}).Info("Plan activated")
	return nil
}

func (s *accountService) GetReferrals(ctx context.Context, user *domain.AuthUser) (*domain.ReferralSummary, error) {
	baker, err := s.EnsureBaker(ctx, user)
	if err != nil {
		return nil, err
	}

	code, err := s.ensureReferralCode(ctx, baker)
	if err != nil {
		return nil, err
	}

	count, err := s.referrals.CountByReferrer(ctx, baker.ID)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load referrals", err)
	}

	return &domain.ReferralSummary{
		ReferralCode:  code,
		ReferralLink:  s.appURL + "/signup?ref=" + code,
		Referrals:     count,
		RewardsMonths: count * RewardMonthsPerReferral,
	}, nil
}

func (s *accountService) ensureReferralCode(ctx context.Context, baker *domain.Baker) (string, error) {
	if baker.ReferralCode != nil && *baker.ReferralCode != "" {
		return *baker.ReferralCode, nil
	}

	for attempt := 0; attempt < referralCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return "", errors.NewInternalError("Failed to generate referral code", err)
		}

		err = s.bakers.SetReferralCode(ctx, baker.ID, code)
		if stderrors.Is(err, repository.ErrDuplicate) {
			s.logger.WithField("attempt", attempt+1).Debug("Referral code collision, retrying")
			continue
		}
		// ErrNotFound means another request assigned a code first.
		if err != nil && !stderrors.Is(err, repository.ErrNotFound) {
			return "", errors.NewInternalError("Failed to save referral code", err)
		}

		fresh, err := s.bakers.GetByID(ctx, baker.ID)
		if err != nil {
			return "", errors.NewInternalError("Failed to load account", err)
		}
		if fresh != nil && fresh.ReferralCode != nil {
			return *fresh.ReferralCode, nil
		}
		return code, nil
	}

	return "", errors.NewInternalError("Failed to generate referral code", fmt.Errorf("%d collisions", referralCodeAttempts))
}

func (s *accountService) ClaimReferral(ctx context.Context, user *domain.AuthUser, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return errors.NewValidationError("Referral code is required", nil)
	}

	baker, err := s.EnsureBaker(ctx, user)
	if err != nil {
		return err
	}

	referrer, err := s.bakers.GetByReferralCode(ctx, code)
	if err != nil {
		return errors.NewInternalError("Failed to look up referral code", err)
	}
	if referrer == nil {
		return errors.NewNotFoundError("Invalid referral code")
	}
	if referrer.ID == baker.ID {
		return errors.NewValidationError("You cannot use your own referral code", nil)
	}

	exists, err := s.referrals.ExistsForUser(ctx, baker.ID)
	if err != nil {
		return errors.NewInternalError("Failed to check referral", err)
	}
	if exists {
		return errors.NewConflictError("Referral already claimed")
	}

	err = s.referrals.Create(ctx, &domain.Referral{
		ReferrerID:     referrer.ID,
		ReferredEmail:  baker.Email,
		ReferredUserID: baker.ID,
		ReferralCode:   code,
		Status:         domain.ReferralStatusPending,
		CreatedAt:      s.now().UTC(),
	})
	if stderrors.Is(err, repository.ErrDuplicate) {
		return errors.NewConflictError("Referral already claimed")
	}
	if err != nil {
		return errors.NewInternalError("Failed to claim referral", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"referrer_id": referrer.ID,
		"baker_id":    baker.ID,
	}).Info("Referral claimed")
	return nil
}
