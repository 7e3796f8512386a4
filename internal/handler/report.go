package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/service"
)

// ReportHandler serves the operator report.
type ReportHandler struct {
	reports *service.ReportService
	log     *zap.Logger
}

// NewReportHandler panics if a dependency is missing.
func NewReportHandler(reports *service.ReportService, log *zap.Logger) *ReportHandler {
	if reports == nil || log == nil {
		panic("nil dependency passed to NewReportHandler")
	}
	return &ReportHandler{reports: reports, log: log}
}

// GetReport handles GET /v1/reports?startDate&endDate&eventId&accommodationId.
// The snake_case spellings (start_date, ...) are accepted as well.
func (h *ReportHandler) GetReport(c echo.Context) error {
	var f model.ReportFilter
	var err error
	if f.Start, err = queryDate(c, "startDate", "start_date"); err != nil {
		return badRequest(c, "startDate must be a date (YYYY-MM-DD)")
	}
	if f.End, err = queryDate(c, "endDate", "end_date"); err != nil {
		return badRequest(c, "endDate must be a date (YYYY-MM-DD)")
	}
	if f.EventID, err = queryID(c, "eventId", "event_id"); err != nil {
		return badRequest(c, "eventId must be numeric")
	}
	if f.AccommodationID, err = queryID(c, "accommodationId", "accommodation_id"); err != nil {
		return badRequest(c, "accommodationId must be numeric")
	}
	r, err := h.reports.Generate(c.Request().Context(), caller(c), f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, r)
}
