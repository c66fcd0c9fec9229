package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bakebot/internal/domain"
	"bakebot/internal/service"
	"bakebot/pkg/errors"
	"bakebot/pkg/logger"
)

// OrderHandler serves order management and the production schedule
type OrderHandler struct {
	orders service.OrderService
	logger *logger.Logger
	now    func() time.Time
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders service.OrderService, logger *logger.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
		now:    time.Now,
	}
}

// ListOrders handles GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req domain.OrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), user.ID, req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

// UpdateOrder handles PUT /api/orders/{id}
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req domain.OrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	order, err := h.orders.UpdateOrder(r.Context(), user.ID, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/orders/{id}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

// Production handles GET /api/production?date=YYYY-MM-DD. The date defaults
// to today in UTC.
func (h *OrderHandler) Production(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	day := h.now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err = time.Parse(domain.DateLayout, raw)
		if err != nil {
			respondError(w, r, h.logger, errors.NewValidationError("Invalid date, expected YYYY-MM-DD", nil))
			return
		}
	}

	schedule, err := h.orders.Production(r.Context(), user.ID, day)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, schedule)
}
