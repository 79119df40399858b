package query

import (
	"fmt"

	"github.com/geomarket/payments/internal/payment/domain"
)

// GetSellerFinancialsQuery represents the query for a seller's financial
// summary
type GetSellerFinancialsQuery struct {
	SellerID string
}

// GetSellerFinancialsHandler handles get seller financials query
type GetSellerFinancialsHandler struct {
	reporting domain.ReportingRepository
}

// NewGetSellerFinancialsHandler creates a new get seller financials handler
func NewGetSellerFinancialsHandler(reporting domain.ReportingRepository) *GetSellerFinancialsHandler {
	return &GetSellerFinancialsHandler{reporting: reporting}
}

// Handle executes the get seller financials query
func (h *GetSellerFinancialsHandler) Handle(q GetSellerFinancialsQuery) (*domain.SellerFinancials, error) {
	if q.SellerID == "" {
		return nil, fmt.Errorf("seller_id is required")
	}

	fin, err := h.reporting.SellerFinancials(q.SellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seller financials: %w", err)
	}

	return fin, nil
}
