package domain

import (
	"time"

	"bakebot/pkg/trial"
)

// Plan types a baker can activate.
const (
	PlanMonthly  = "monthly"
	PlanLifetime = "lifetime"
)

// IsValidPlan reports whether plan can be activated through grant-access.
func IsValidPlan(plan string) bool {
	return plan == PlanMonthly || plan == PlanLifetime
}

// Baker is a tenant account. ID equals the Supabase auth user id.
type Baker struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	BusinessName string     `json:"business_name"`
	IsPremium    bool       `json:"is_premium"`
	PlanType     *string    `json:"plan_type,omitempty"`
	TrialEndsAt  *time.Time `json:"trial_ends_at,omitempty"`
	ReferralCode *string    `json:"referral_code,omitempty"`
	EmailLeads   bool       `json:"email_leads"`
	OrderUpdates bool       `json:"order_updates"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Account is the baker profile together with the computed trial status.
type Account struct {
	Baker *Baker       `json:"baker"`
	Trial trial.Status `json:"trial"`
}

// AccountSettings is the body of PUT /api/account/settings.
type AccountSettings struct {
	BusinessName string `json:"business_name"`
	EmailLeads   bool   `json:"email_leads"`
	OrderUpdates bool   `json:"order_updates"`
}

// Referral statuses.
const (
	ReferralStatusPending   = "pending"
	ReferralStatusConverted = "converted"
)

// Referral links a new account to the baker who referred it.
type Referral struct {
	ID             string    `json:"id"`
	ReferrerID     string    `json:"referrer_id"`
	ReferredEmail  string    `json:"referred_email"`
	ReferredUserID string    `json:"referred_user_id"`
	ReferralCode   string    `json:"referral_code"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// ReferralSummary is returned by GET /api/referrals. One free month is
// credited per referral.
type ReferralSummary struct {
	ReferralCode  string `json:"referral_code"`
	ReferralLink  string `json:"referral_link"`
	Referrals     int    `json:"referrals"`
	RewardsMonths int    `json:"rewards_months"`
}

// ClaimReferralRequest attaches the caller to a referrer after signup.
type ClaimReferralRequest struct {
	ReferralCode string `json:"referralCode"`
}
