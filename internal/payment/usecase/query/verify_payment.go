package query

import (
	"errors"
	"fmt"

	"github.com/geomarket/payments/internal/payment/domain"
)

// VerifyPaymentQuery represents the query to verify a payment by reference
type VerifyPaymentQuery struct {
	Reference string
}

// VerificationResult is what the client polls after checkout. An unknown
// reference verifies as failed rather than erroring, so the checkout page can
// treat every answer uniformly.
type VerificationResult struct {
	Status  domain.PaymentStatus `json:"status"`
	Payment *domain.Payment      `json:"payment,omitempty"`
}

// VerifyPaymentHandler handles verify payment query
type VerifyPaymentHandler struct {
	repo domain.PaymentRepository
}

// NewVerifyPaymentHandler creates a new verify payment handler
func NewVerifyPaymentHandler(repo domain.PaymentRepository) *VerifyPaymentHandler {
	return &VerifyPaymentHandler{repo: repo}
}

// Handle executes the verify payment query
func (h *VerifyPaymentHandler) Handle(q VerifyPaymentQuery) (*VerificationResult, error) {
	if q.Reference == "" {
		return nil, fmt.Errorf("reference is required")
	}

	payment, err := h.repo.FindByReference(q.Reference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &VerificationResult{Status: domain.StatusFailed}, nil
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	return &VerificationResult{Status: payment.Status, Payment: payment}, nil
}
