package handler

import (
	"net/http"

	"bakebot/internal/domain"
	"bakebot/internal/middleware"
	"bakebot/internal/service"
	"bakebot/pkg/logger"
)

// FeedbackHandler serves the beta feedback widget, the daily survey and the
// click tracker
type FeedbackHandler struct {
	feedback  service.FeedbackService
	analytics service.AnalyticsService
	logger    *logger.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedback service.FeedbackService, analytics service.AnalyticsService, logger *logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedback:  feedback,
		analytics: analytics,
		logger:    logger,
	}
}

// SubmitFeedback handles POST /api/feedback
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req domain.FeedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	fb, err := h.feedback.SubmitFeedback(r.Context(), user, req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, fb)
}

// SubmitSurvey handles POST /api/survey
func (h *FeedbackHandler) SubmitSurvey(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req domain.SurveyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	sr, err := h.feedback.SubmitSurvey(r.Context(), user, req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, sr)
}

// SurveyToday handles GET /api/survey/today
func (h *FeedbackHandler) SurveyToday(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	status, err := h.feedback.SurveyStatus(r.Context(), user)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// RecordEvent handles POST /api/events. Anonymous visitors are tracked too.
func (h *FeedbackHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	var req domain.EventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	event, err := h.analytics.RecordEvent(r.Context(), middleware.UserFromContext(r.Context()), req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, event)
}
