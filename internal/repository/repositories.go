package repository

import "bakebot/pkg/database"

// NewRepositories wires every PostgreSQL repository
func NewRepositories(db *database.PostgresDB) *Repositories {
	return &Repositories{
		Baker:     NewBakerRepository(db),
		Referral:  NewReferralRepository(db),
		Order:     NewOrderRepository(db),
		Design:    NewDesignRepository(db),
		Feedback:  NewFeedbackRepository(db),
		Survey:    NewSurveyRepository(db),
		Analytics: NewAnalyticsRepository(db),
		Waitlist:  NewWaitlistRepository(db),
	}
}
