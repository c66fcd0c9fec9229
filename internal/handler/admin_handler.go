package handler

import (
	"net/http"
	"strconv"

	"bakebot/internal/service"
	"bakebot/pkg/logger"
)

// AdminHandler serves the internal beta dashboard
type AdminHandler struct {
	feedback  service.FeedbackService
	analytics service.AnalyticsService
	logger    *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(feedback service.FeedbackService, analytics service.AnalyticsService, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		feedback:  feedback,
		analytics: analytics,
		logger:    logger,
	}
}

// Summary handles GET /api/admin/summary
func (h *AdminHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analytics.AdminSummary(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Feedback handles GET /api/admin/feedback
func (h *AdminHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	items, err := h.feedback.ListFeedback(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// BrokenClicks handles GET /api/admin/broken-clicks?limit=N
func (h *AdminHandler) BrokenClicks(w http.ResponseWriter, r *http.Request) {
	limit := service.DefaultBrokenClicksLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	events, err := h.analytics.BrokenClicks(r.Context(), limit)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}
