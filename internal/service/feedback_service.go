package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"bakebot/internal/domain"
	"bakebot/internal/repository"
	"bakebot/pkg/errors"
	"bakebot/pkg/logger"
)

const (
	maxFeedbackMessageRunes = 2000
	maxSurveyAnswerRunes    = 1000
)

type feedbackService struct {
	feedback repository.FeedbackRepository
	surveys  repository.SurveyRepository
	notifier *Notifier
	logger   *logger.Logger
	now      func() time.Time
}

// NewFeedbackService creates the feedback widget and daily survey service
func NewFeedbackService(feedback repository.FeedbackRepository, surveys repository.SurveyRepository, notifier *Notifier, log *logger.Logger) FeedbackService {
	return &feedbackService{
		feedback: feedback,
		surveys:  surveys,
		notifier: notifier,
		logger:   log,
		now:      time.Now,
	}
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return errors.NewValidationError("Rating must be between 1 and 5", map[string]interface{}{"rating": rating})
	}
	return nil
}

func (s *feedbackService) SubmitFeedback(ctx context.Context, user *domain.AuthUser, req domain.FeedbackRequest) (*domain.Feedback, error) {
	if user == nil {
		return nil, errors.NewAuthenticationError("Unauthorized")
	}
	if !domain.IsValidFeedbackCategory(req.Category) {
		return nil, errors.NewValidationError("Invalid category", map[string]interface{}{"category": req.Category})
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, errors.NewValidationError("Message is required", nil)
	}
	if utf8.RuneCountInString(message) > maxFeedbackMessageRunes {
		return nil, errors.NewValidationError("Message is too long", map[string]interface{}{"max_length": maxFeedbackMessageRunes})
	}

	fb := &domain.Feedback{
		UserID:      user.ID,
		UserEmail:   user.Email,
		Category:    req.Category,
		Rating:      req.Rating,
		Message:     message,
		PageURL:     strings.TrimSpace(req.PageURL),
		BrowserInfo: req.BrowserInfo,
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		return nil, errors.NewInternalError("Failed to save feedback", err)
	}

	if !s.notifier.FeedbackSubmitted(fb) {
		s.logger.WithField("feedback_id", fb.ID).Debug("Feedback email not queued")
	}

	s.logger.WithFields(map[string]interface{}{
		"feedback_id": fb.ID,
		"user_id":     user.ID,
		"category":    fb.Category,
		"rating":      fb.Rating,
	}).Info("Feedback submitted")
	return fb, nil
}

func (s *feedbackService) ListFeedback(ctx context.Context) ([]*domain.Feedback, error) {
	items, err := s.feedback.List(ctx, 0)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load feedback", err)
	}
	return items, nil
}

func trimAnswer(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > maxSurveyAnswerRunes {
		return "", errors.NewValidationError(field+" is too long", map[string]interface{}{"max_length": maxSurveyAnswerRunes})
	}
	return value, nil
}

func (s *feedbackService) SubmitSurvey(ctx context.Context, user *domain.AuthUser, req domain.SurveyRequest) (*domain.SurveyResponse, error) {
	if user == nil {
		return nil, errors.NewAuthenticationError("Unauthorized")
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}

	var err error
	if req.ValuableFeature, err = trimAnswer("Valuable feature", req.ValuableFeature); err != nil {
		return nil, err
	}
	if req.ChangeOneThing, err = trimAnswer("Change one thing", req.ChangeOneThing); err != nil {
		return nil, err
	}
	if req.EstimatedValue, err = trimAnswer("Estimated value", req.EstimatedValue); err != nil {
		return nil, err
	}

	resp := &domain.SurveyResponse{
		UserID:      user.ID,
		UserEmail:   user.Email,
		Question1:   fmt.Sprintf("Rating: %d/5", req.Rating),
		Question2:   req.ValuableFeature,
		Question3:   req.ChangeOneThing,
		ValueRating: req.EstimatedValue,
	}
	if err := s.surveys.Create(ctx, resp); err != nil {
		return nil, errors.NewInternalError("Failed to save survey", err)
	}

	s.notifier.SurveySubmitted(user.Email, req)

	s.logger.WithFields(map[string]interface{}{
		"survey_id": resp.ID,
		"user_id":   user.ID,
		"rating":    req.Rating,
	}).Info("Survey submitted")
	return resp, nil
}

func (s *feedbackService) SurveyStatus(ctx context.Context, user *domain.AuthUser) (*domain.SurveyStatus, error) {
	if user == nil {
		return nil, errors.NewAuthenticationError("Unauthorized")
	}

	now := s.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	count, err := s.surveys.CountByUserSince(ctx, user.ID, startOfDay)
	if err != nil {
		return nil, errors.NewInternalError("Failed to load survey status", err)
	}
	return &domain.SurveyStatus{AnsweredToday: count > 0}, nil
}
