package query

import (
	"fmt"

	"github.com/geomarket/payments/internal/payment/domain"
)

// ListSellerPayoutsQuery represents the query to list a seller's payouts
type ListSellerPayoutsQuery struct {
	SellerID string
	Page     int
	Limit    int
}

// SellerPayoutsPage is one page of a seller's payout batches.
type SellerPayoutsPage struct {
	Payouts    []domain.Payout `json:"payouts"`
	Pagination Pagination      `json:"pagination"`
}

// ListSellerPayoutsHandler handles list seller payouts query
type ListSellerPayoutsHandler struct {
	repo domain.PayoutRepository
}

// NewListSellerPayoutsHandler creates a new list seller payouts handler
func NewListSellerPayoutsHandler(repo domain.PayoutRepository) *ListSellerPayoutsHandler {
	return &ListSellerPayoutsHandler{repo: repo}
}

// Handle executes the list seller payouts query
func (h *ListSellerPayoutsHandler) Handle(q ListSellerPayoutsQuery) (*SellerPayoutsPage, error) {
	if q.SellerID == "" {
		return nil, fmt.Errorf("seller_id is required")
	}

	page, limit := normalizePage(q.Page, q.Limit)
	offset := (page - 1) * limit

	payouts, total, err := h.repo.FindBySeller(q.SellerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}

	return &SellerPayoutsPage{
		Payouts:    payouts,
		Pagination: newPagination(page, limit, total),
	}, nil
}
