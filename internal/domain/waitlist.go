package domain

import "time"

// Waitlist roles.
const (
	RoleBaker    = "baker"
	RoleCustomer = "customer"
	RoleCurious  = "curious"
)

// DefaultWaitlistSource is used when a signup omits its source.
const DefaultWaitlistSource = "landing-page"

// IsValidRole reports whether role is a waitlist role.
func IsValidRole(role string) bool {
	return role == RoleBaker || role == RoleCustomer || role == RoleCurious
}

// WaitlistSignup is one marketing waitlist entry.
type WaitlistSignup struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// WaitlistRequest is the body of POST /api/waitlist-signup.
type WaitlistRequest struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	Source string `json:"source"`
}

// WaitlistBreakdown is the rounded share of each role.
type WaitlistBreakdown struct {
	Bakers    int `json:"bakers"`
	Customers int `json:"customers"`
	Curious   int `json:"curious"`
}

// WaitlistStats is the response of GET /api/waitlist/stats.
type WaitlistStats struct {
	TotalSignups        int               `json:"total_signups"`
	BakerCount          int               `json:"baker_count"`
	CustomerCount       int               `json:"customer_count"`
	CuriousCount        int               `json:"curious_count"`
	Last24hSignups      int               `json:"last_24h_signups"`
	Last7dSignups       int               `json:"last_7d_signups"`
	MostRecentSignup    *time.Time        `json:"most_recent_signup"`
	BreakdownPercentage WaitlistBreakdown `json:"breakdown_percentage"`
	Timestamp           time.Time         `json:"timestamp"`
}

// ReferralClick records a visit through a referral link.
type ReferralClick struct {
	ID           string    `json:"id"`
	ReferralCode string    `json:"referral_code"`
	ReferrerID   string    `json:"referrer_id"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	CreatedAt    time.Time `json:"created_at"`
}

// TrackReferralRequest is the body of POST /api/track-referral.
type TrackReferralRequest struct {
	ReferralCode string `json:"referralCode"`
}
