package domain

import (
	"encoding/json"
	"time"
)

// Feedback categories.
const (
	FeedbackBug            = "bug"
	FeedbackFeatureRequest = "feature_request"
	FeedbackUIUX           = "ui_ux"
	FeedbackOther          = "other"
)

// IsValidFeedbackCategory reports whether category is known.
func IsValidFeedbackCategory(category string) bool {
	switch category {
	case FeedbackBug, FeedbackFeatureRequest, FeedbackUIUX, FeedbackOther:
		return true
	}
	return false
}

// Feedback is a beta feedback widget submission.
type Feedback struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	UserEmail   string          `json:"user_email"`
	Category    string          `json:"category"`
	Rating      int             `json:"rating"`
	Message     string          `json:"message"`
	PageURL     string          `json:"page_url"`
	BrowserInfo json.RawMessage `json:"browser_info,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// FeedbackRequest is the body of POST /api/feedback.
type FeedbackRequest struct {
	Category    string          `json:"category"`
	Rating      int             `json:"rating"`
	Message     string          `json:"message"`
	PageURL     string          `json:"page_url"`
	BrowserInfo json.RawMessage `json:"browser_info"`
}

// SurveyResponse is one daily survey answer.
type SurveyResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	UserEmail   string    `json:"user_email"`
	Question1   string    `json:"question_1"`
	Question2   string    `json:"question_2"`
	Question3   string    `json:"question_3"`
	ValueRating string    `json:"value_rating"`
	CreatedAt   time.Time `json:"created_at"`
}

// SurveyRequest is the body of POST /api/survey.
type SurveyRequest struct {
	Rating          int    `json:"rating"`
	ValuableFeature string `json:"valuableFeature"`
	ChangeOneThing  string `json:"changeOneThing"`
	EstimatedValue  string `json:"estimatedValue"`
}

// SurveyStatus tells the client whether to show today's survey.
type SurveyStatus struct {
	AnsweredToday bool `json:"answered_today"`
}

// Analytics event types.
const (
	EventPageView = "page_view"
	EventClick    = "click"
)

// AnalyticsEvent is a page view or click recorded by the tracker.
type AnalyticsEvent struct {
	ID          string          `json:"id"`
	UserID      *string         `json:"user_id,omitempty"`
	EventType   string          `json:"event_type"`
	PagePath    string          `json:"page_path"`
	XPos        *int            `json:"x_pos,omitempty"`
	YPos        *int            `json:"y_pos,omitempty"`
	IsDeadClick bool            `json:"is_dead_click"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ClickTarget describes the element a click landed on.
type ClickTarget struct {
	Tag       string   `json:"element"`
	ID        string   `json:"id,omitempty"`
	ClassName string   `json:"className,omitempty"`
	Text      string   `json:"text,omitempty"`
	Ancestors []string `json:"ancestors,omitempty"`
	Cursor    string   `json:"cursor,omitempty"`
}

// EventRequest is the body of POST /api/events.
type EventRequest struct {
	EventType      string          `json:"event_type"`
	PagePath       string          `json:"page_path"`
	ClientX        float64         `json:"client_x"`
	ClientY        float64         `json:"client_y"`
	ViewportWidth  float64         `json:"viewport_width"`
	ViewportHeight float64         `json:"viewport_height"`
	Target         *ClickTarget    `json:"target,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
}

// AdminSummary backs the admin dashboard.
type AdminSummary struct {
	TotalFeedback  int        `json:"total_feedback"`
	AverageRating  float64    `json:"average_rating"`
	TotalEvents    int        `json:"total_events"`
	DeadClicks     int        `json:"dead_clicks"`
	LatestFeedback []Feedback `json:"latest_feedback"`
}
