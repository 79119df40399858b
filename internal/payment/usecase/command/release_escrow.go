package command

import (
	"fmt"

	"github.com/geomarket/payments/internal/payment/domain"
	"github.com/geomarket/payments/pkg/logger"
)

// ReleaseEscrowCommand represents the command to release held escrow funds.
type ReleaseEscrowCommand struct {
	PaymentID  string
	ReleasedBy string
}

// EscrowReleaseResult reports the released payment and the payout batch the
// funds joined, if a payout was scheduled.
type EscrowReleaseResult struct {
	Payment *domain.Payment
	Payout  *domain.Payout
}

// ReleaseEscrowHandler handles release escrow command
type ReleaseEscrowHandler struct {
	payments domain.PaymentRepository
	payouts  *SchedulePayoutHandler
}

// NewReleaseEscrowHandler creates a new release escrow handler
func NewReleaseEscrowHandler(payments domain.PaymentRepository, payouts *SchedulePayoutHandler) *ReleaseEscrowHandler {
	return &ReleaseEscrowHandler{payments: payments, payouts: payouts}
}

// Handle executes the release escrow command. Only a held escrow payment can
// be released; release is what makes the funds eligible for payout.
func (h *ReleaseEscrowHandler) Handle(cmd ReleaseEscrowCommand) (*EscrowReleaseResult, error) {
	if cmd.PaymentID == "" {
		return nil, fmt.Errorf("payment_id is required")
	}

	payment, err := h.payments.FindByID(cmd.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	if !payment.Escrow {
		return nil, fmt.Errorf("payment is not an escrow payment: %w", domain.ErrInvalidState)
	}
	if payment.EscrowStatus == nil || *payment.EscrowStatus != domain.EscrowHeld {
		return nil, fmt.Errorf("escrow is not held: %w", domain.ErrInvalidState)
	}

	if err := h.payments.UpdateEscrowStatus(payment.ID, domain.EscrowReleased); err != nil {
		return nil, fmt.Errorf("failed to release escrow: %w", err)
	}
	released := domain.EscrowReleased
	payment.EscrowStatus = &released

	var payout *domain.Payout
	if payment.SellerID != "" {
		payout, err = h.payouts.Handle(SchedulePayoutCommand{PaymentID: payment.ID})
		if err != nil {
			logger.Logger.Error().Err(err).
				Str("payment_id", payment.ID).
				Msg("Failed to schedule payout after escrow release")
		}
	}

	return &EscrowReleaseResult{Payment: payment, Payout: payout}, nil
}
