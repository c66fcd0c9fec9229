package handler

import (
	"net/http"

	"bakebot/internal/service"
	"bakebot/pkg/logger"
)

// ReportHandler serves the cron-triggered owner reports
type ReportHandler struct {
	reports service.ReportService
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports service.ReportService, logger *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

// Daily handles GET /api/report
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.DailyReport(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// Traction handles GET /api/traction-report
func (h *ReportHandler) Traction(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.TractionReport(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
