package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bakebot/internal/domain"
	"bakebot/internal/service"
	"bakebot/pkg/logger"
	"bakebot/pkg/pricing"
)

// DesignHandler serves mockup generation, quotes and saved designs
type DesignHandler struct {
	designs service.DesignService
	logger  *logger.Logger
}

// NewDesignHandler creates a new design handler
func NewDesignHandler(designs service.DesignService, logger *logger.Logger) *DesignHandler {
	return &DesignHandler{
		designs: designs,
		logger:  logger,
	}
}

// Generate handles POST /api/generate
func (h *DesignHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	imageURL, err := h.designs.GenerateMockup(r.Context(), req.Prompt)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, domain.GenerateResponse{ImageURL: imageURL})
}

// Quote handles POST /api/quotes
func (h *DesignHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var cfg pricing.Configuration
	if err := decodeJSON(w, r, &cfg); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.designs.Quote(cfg))
}

// ListDesigns handles GET /api/designs
func (h *DesignHandler) ListDesigns(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	designs, err := h.designs.ListDesigns(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, designs)
}

// CreateDesign handles POST /api/designs
func (h *DesignHandler) CreateDesign(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req domain.DesignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	design, err := h.designs.CreateDesign(r.Context(), user.ID, req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, design)
}

// DeleteDesign handles DELETE /api/designs/{id}
func (h *DesignHandler) DeleteDesign(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if err := h.designs.DeleteDesign(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

// CreateOrder handles POST /api/designs/{id}/order
func (h *DesignHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	order, err := h.designs.CreateOrderFromDesign(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}
