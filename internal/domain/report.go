package domain

import "time"

// DailyReport summarises the last 24 hours of beta activity.
type DailyReport struct {
	Since             time.Time        `json:"since"`
	UniqueUsers       int              `json:"unique_users"`
	TotalInteractions int              `json:"total_interactions"`
	AverageRating     *float64         `json:"average_rating"`
	Surveys           []SurveyResponse `json:"surveys"`
}

// TractionReport summarises the marketing waitlist.
type TractionReport struct {
	TotalSignups    int              `json:"totalSignups"`
	SignupsByRole   map[string]int   `json:"signupsByRole"`
	SignupsBySource map[string]int   `json:"signupsBySource"`
	RecentSignups   []WaitlistSignup `json:"recentSignups"`
}
