package query

import (
	"fmt"
	"time"

	"github.com/geomarket/payments/internal/payment/domain"
)

// GetFinancialReportQuery represents the query for the platform-wide
// financial report over [Start, End).
type GetFinancialReportQuery struct {
	Start time.Time
	End   time.Time
}

// GetFinancialReportHandler handles get financial report query
type GetFinancialReportHandler struct {
	reporting domain.ReportingRepository
}

// NewGetFinancialReportHandler creates a new get financial report handler
func NewGetFinancialReportHandler(reporting domain.ReportingRepository) *GetFinancialReportHandler {
	return &GetFinancialReportHandler{reporting: reporting}
}

// Handle executes the get financial report query. A zero range defaults to
// the last 30 days.
func (h *GetFinancialReportHandler) Handle(q GetFinancialReportQuery) (*domain.FinancialReport, error) {
	if q.End.IsZero() {
		q.End = time.Now()
	}
	if q.Start.IsZero() {
		q.Start = q.End.AddDate(0, 0, -30)
	}
	if !q.Start.Before(q.End) {
		return nil, fmt.Errorf("start date must be before end date")
	}

	report, err := h.reporting.FinancialReport(q.Start, q.End)
	if err != nil {
		return nil, fmt.Errorf("failed to build financial report: %w", err)
	}

	return report, nil
}
