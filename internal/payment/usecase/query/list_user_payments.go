package query

import (
	"fmt"

	"github.com/geomarket/payments/internal/payment/domain"
)

// Pagination is the page envelope shared by the list queries.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func newPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// normalizePage clamps page and limit to sane bounds.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// ListUserPaymentsQuery represents the query to list a user's payments
type ListUserPaymentsQuery struct {
	UserID string
	Status domain.PaymentStatus
	Page   int
	Limit  int
}

// UserPaymentsPage is one page of a user's payment history.
type UserPaymentsPage struct {
	Payments   []domain.Payment `json:"payments"`
	Pagination Pagination       `json:"pagination"`
}

// ListUserPaymentsHandler handles list user payments query
type ListUserPaymentsHandler struct {
	repo domain.PaymentRepository
}

// NewListUserPaymentsHandler creates a new list user payments handler
func NewListUserPaymentsHandler(repo domain.PaymentRepository) *ListUserPaymentsHandler {
	return &ListUserPaymentsHandler{repo: repo}
}

// Handle executes the list user payments query
func (h *ListUserPaymentsHandler) Handle(q ListUserPaymentsQuery) (*UserPaymentsPage, error) {
	if q.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	page, limit := normalizePage(q.Page, q.Limit)
	offset := (page - 1) * limit

	payments, total, err := h.repo.FindByUser(q.UserID, q.Status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return &UserPaymentsPage{
		Payments:   payments,
		Pagination: newPagination(page, limit, total),
	}, nil
}
