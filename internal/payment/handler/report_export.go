package handler

import (
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"

	"github.com/geomarket/payments/pkg/logger"
)

// ExportFinancialReport handles GET /api/reports/financial/export. It renders
// the same aggregation as GetFinancialReport into an xlsx attachment.
func (h *PaymentHandler) ExportFinancialReport(w http.ResponseWriter, r *http.Request) {
	q, err := reportRange(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	report, err := h.reportHandler.Handle(q)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to build financial report for export")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to build financial report",
		})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Financial Report"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", "Period")
	f.SetCellValue(sheet, "B1", fmt.Sprintf("%s to %s",
		report.StartDate.Format("2006-01-02"), report.EndDate.Format("2006-01-02")))

	headers := []string{"Method", "Transactions", "Revenue", "Fees", "Refunds"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		f.SetCellValue(sheet, cell, header)
	}

	row := 4
	for _, m := range report.ByMethod {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), string(m.Method))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Transactions)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), m.Revenue.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), m.Fees.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), m.Refunds.InexactFloat64())
		row++
	}

	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), report.Transactions)
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), report.TotalRevenue.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), report.TotalFees.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("E%d", row), report.TotalRefunds.InexactFloat64())

	filename := fmt.Sprintf("financial-report-%s.xlsx", report.EndDate.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := f.Write(w); err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to write xlsx report")
	}
}
