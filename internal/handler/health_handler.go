package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bakebot/pkg/logger"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthCheckFunc adapts a function to HealthChecker
type HealthCheckFunc func(ctx context.Context) error

// Health implements HealthChecker
func (f HealthCheckFunc) Health(ctx context.Context) error { return f(ctx) }

// HealthHandler handles health check requests
type HealthHandler struct {
	database HealthChecker
	cache    HealthChecker
	logger   *logger.Logger
}

// NewHealthHandler creates a new health handler. The database is required
// for a healthy status; cache failures only degrade it.
func NewHealthHandler(database, cache HealthChecker, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		database: database,
		cache:    cache,
		logger:   logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   Version,
		Service:   "bakebot",
		Checks:    map[string]string{},
	}
	status := http.StatusOK

	if h.database != nil {
		response.Checks["database"] = "ok"
		if err := h.database.Health(ctx); err != nil {
			h.logger.WithError(err).Error("Database health check failed")
			response.Checks["database"] = "unavailable"
			response.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	if h.cache != nil {
		response.Checks["cache"] = "ok"
		if err := h.cache.Health(ctx); err != nil {
			response.Checks["cache"] = "unavailable"
			if status == http.StatusOK {
				response.Status = "degraded"
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("Failed to encode health check response")
	}
}
