package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/railis/core/internal/infrastructure/logger"
	"github.com/railis/core/internal/ports"
)

// ReportHandler handles aggregate statistics requests
type ReportHandler struct {
	reportService ports.ReportService
	logger        *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService ports.ReportService, logger *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// Stats godoc
// @Summary Dashboard statistics
// @Description Aggregate task statistics over the caller's visible tasks
// @Tags reports
// @Produce json
// @Success 200 {object} ports.TaskStats
// @Security BearerAuth
// @Router /tasks/stats [get]
func (h *ReportHandler) Stats(c echo.Context) error {
	actor := actorFromContext(c)

	stats, err := h.reportService.Stats(c.Request().Context(), actor)
	if err != nil {
		h.logger.Error("Stats failed", "error", err, "user_id", actor.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, stats)
}

// WorkerReports godoc
// @Summary Per-worker performance report
// @Description Performance rows for every worker, scoped to tasks the calling leader assigned. Leaders only.
// @Tags reports
// @Produce json
// @Success 200 {array} ports.WorkerReport
// @Failure 403 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /reports/workers [get]
func (h *ReportHandler) WorkerReports(c echo.Context) error {
	actor := actorFromContext(c)

	reports, err := h.reportService.WorkerReports(c.Request().Context(), actor)
	if err != nil {
		h.logger.Error("Worker reports failed", "error", err, "user_id", actor.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, reports)
}

// MonthlyReport godoc
// @Summary Monthly task report
// @Description Created and completed task counts per month for the trailing six months
// @Tags reports
// @Produce json
// @Success 200 {array} ports.MonthlyBucket
// @Security BearerAuth
// @Router /reports/monthly [get]
func (h *ReportHandler) MonthlyReport(c echo.Context) error {
	actor := actorFromContext(c)

	buckets, err := h.reportService.MonthlyReport(c.Request().Context(), actor)
	if err != nil {
		h.logger.Error("Monthly report failed", "error", err, "user_id", actor.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, buckets)
}
