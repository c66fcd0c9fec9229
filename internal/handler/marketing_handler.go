package handler

import (
	"net/http"

	"bakebot/internal/domain"
	"bakebot/internal/middleware"
	"bakebot/internal/service"
	"bakebot/pkg/logger"
)

// MarketingHandler serves the public landing page endpoints
type MarketingHandler struct {
	marketing service.MarketingService
	logger    *logger.Logger
}

// NewMarketingHandler creates a new marketing handler
func NewMarketingHandler(marketing service.MarketingService, logger *logger.Logger) *MarketingHandler {
	return &MarketingHandler{
		marketing: marketing,
		logger:    logger,
	}
}

// JoinWaitlist handles POST /api/waitlist-signup
func (h *MarketingHandler) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	var req domain.WaitlistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	signup, err := h.marketing.JoinWaitlist(r.Context(), req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, signup)
}

// WaitlistStats handles GET /api/waitlist/stats
func (h *MarketingHandler) WaitlistStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.marketing.WaitlistStats(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	respondJSON(w, http.StatusOK, stats)
}

// TrackReferral handles POST /api/track-referral
func (h *MarketingHandler) TrackReferral(w http.ResponseWriter, r *http.Request) {
	var req domain.TrackReferralRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	ip := middleware.ClientIP(r)
	if err := h.marketing.TrackReferral(r.Context(), req.ReferralCode, ip, r.UserAgent()); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}
