// Package trial computes the trial status of a baker account.
package trial

import (
	"fmt"
	"strings"
	"time"
)

// TrialLength is the trial granted to a newly created baker.
const TrialLength = 14 * 24 * time.Hour

// Status describes where an account stands relative to its trial end.
type Status struct {
	IsActive      bool      `json:"isActive"`
	DaysRemaining int       `json:"daysRemaining"`
	IsExpired     bool      `json:"isExpired"`
	TrialEndsAt   time.Time `json:"trialEndsAt"`
}

// Calculate returns the status of a trial ending at endsAt. A nil endsAt is
// treated as already expired.
func Calculate(endsAt *time.Time, now time.Time) Status {
	if endsAt == nil {
		return Status{IsExpired: true, TrialEndsAt: now}
	}

	expired := now.After(*endsAt)
	days := int(endsAt.Sub(now) / (24 * time.Hour))
	if days < 0 {
		days = 0
	}

	return Status{
		IsActive:      !expired,
		DaysRemaining: days,
		IsExpired:     expired,
		TrialEndsAt:   *endsAt,
	}
}

// EndsAt returns the trial end for an account created at createdAt.
func EndsAt(createdAt time.Time) time.Time {
	return createdAt.Add(TrialLength)
}

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02T15:04:05.999999",
	"2006-01-02",
}

// Parse reads a trial end timestamp. An empty string yields nil.
func Parse(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid trial end date %q", s)
}
