package handler

import (
	"net/http"
	"net/url"

	"bakebot/internal/domain"
	"bakebot/internal/middleware"
	"bakebot/internal/service"
	"bakebot/pkg/logger"
)

// AccountHandler serves the baker's account, plan and referral endpoints
type AccountHandler struct {
	accounts service.AccountService
	appURL   string
	logger   *logger.Logger
}

// NewAccountHandler creates a new account handler. appURL is the web app
// origin used for plan activation redirects.
func NewAccountHandler(accounts service.AccountService, appURL string, logger *logger.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		appURL:   appURL,
		logger:   logger,
	}
}

// GetAccount handles GET /api/account
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), user)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

// UpdateSettings handles PUT /api/account/settings
func (h *AccountHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var settings domain.AccountSettings
	if err := decodeJSON(w, r, &settings); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	account, err := h.accounts.UpdateSettings(r.Context(), user, settings)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

// GrantAccess handles GET /api/auth/grant-access?plan=monthly|lifetime.
// It is reached from the checkout return link, so every outcome is a redirect.
func (h *AccountHandler) GrantAccess(w http.ResponseWriter, r *http.Request) {
	plan := r.URL.Query().Get("plan")

	user := middleware.UserFromContext(r.Context())
	if user == nil {
		next := "/api/auth/grant-access?plan=" + plan
		h.redirect(w, r, "/login?redirect="+url.QueryEscape(next))
		return
	}

	if !domain.IsValidPlan(plan) {
		h.redirect(w, r, "/dashboard")
		return
	}

	if err := h.accounts.ActivatePlan(r.Context(), user, plan); err != nil {
		h.logger.WithError(err).WithField("user_id", user.ID).Error("Failed to activate plan")
		h.redirect(w, r, "/dashboard?error=activation_failed")
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"user_id": user.ID,
		"plan":    plan,
	}).Info("Plan activated")
	h.redirect(w, r, "/dashboard?success=plan_activated")
}

func (h *AccountHandler) redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, h.appURL+path, http.StatusFound)
}

// GetReferrals handles GET /api/referrals
func (h *AccountHandler) GetReferrals(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	summary, err := h.accounts.GetReferrals(r.Context(), user)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// ClaimReferral handles POST /api/referrals/claim
func (h *AccountHandler) ClaimReferral(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req domain.ClaimReferralRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if err := h.accounts.ClaimReferral(r.Context(), user, req.ReferralCode); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": domain.ReferralStatusPending})
}

// RequireBaker provisions the caller's baker row before tenant scoped
// handlers run
func (h *AccountHandler) RequireBaker(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r)
		if err != nil {
			respondError(w, r, h.logger, err)
			return
		}

		if _, err := h.accounts.EnsureBaker(r.Context(), user); err != nil {
			respondError(w, r, h.logger, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
