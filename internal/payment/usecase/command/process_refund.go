package command

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/geomarket/payments/internal/payment/domain"
)

// ProcessRefundCommand represents the command to refund a payment. A zero
// Amount refunds the full payment.
type ProcessRefundCommand struct {
	PaymentID   string
	Amount      decimal.Decimal
	Reason      string
	RequestedBy string
}

// RefundResult carries the recorded refund and the payment status it left
// behind.
type RefundResult struct {
	Refund        *domain.PaymentRefund `json:"refund"`
	PaymentStatus domain.PaymentStatus  `json:"payment_status"`
}

// ProcessRefundHandler handles process refund command
type ProcessRefundHandler struct {
	payments domain.PaymentRepository
	refunds  domain.RefundRepository
}

// NewProcessRefundHandler creates a new process refund handler
func NewProcessRefundHandler(payments domain.PaymentRepository, refunds domain.RefundRepository) *ProcessRefundHandler {
	return &ProcessRefundHandler{payments: payments, refunds: refunds}
}

// Handle executes the process refund command. Only settled money can be
// refunded; the resulting payment status comes from the aggregate of all
// refunds, so partial refunds accumulate toward refunded.
func (h *ProcessRefundHandler) Handle(cmd ProcessRefundCommand) (*RefundResult, error) {
	if cmd.PaymentID == "" {
		return nil, fmt.Errorf("payment_id is required")
	}

	payment, err := h.payments.FindByID(cmd.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	switch payment.Status {
	case domain.StatusCompleted, domain.StatusPartiallyRefunded:
	default:
		return nil, fmt.Errorf("payment in status %s cannot be refunded: %w", payment.Status, domain.ErrInvalidState)
	}

	amount := cmd.Amount
	if amount.IsZero() {
		amount = payment.Amount
	}
	if !amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("refund amount must be greater than 0")
	}
	if amount.GreaterThan(payment.Amount) {
		return nil, fmt.Errorf("refund amount exceeds payment amount")
	}

	refund := &domain.PaymentRefund{
		ID:          uuid.New().String(),
		PaymentID:   payment.ID,
		Amount:      amount,
		Reason:      cmd.Reason,
		Status:      "processing",
		RequestedBy: cmd.RequestedBy,
	}

	status, err := h.refunds.ApplyRefund(refund)
	if err != nil {
		return nil, fmt.Errorf("failed to apply refund: %w", err)
	}

	return &RefundResult{Refund: refund, PaymentStatus: status}, nil
}
