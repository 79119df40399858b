package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/geomarket/payments/internal/payment/domain"
)

// payoutDelay is how far ahead of completion a payout is scheduled.
const payoutDelay = 24 * time.Hour

// SchedulePayoutCommand represents the command to schedule a seller payout
// for a completed payment.
type SchedulePayoutCommand struct {
	PaymentID string
}

// SchedulePayoutHandler handles schedule payout command
type SchedulePayoutHandler struct {
	payments domain.PaymentRepository
	payouts  domain.PayoutRepository
	now      func() time.Time
}

// NewSchedulePayoutHandler creates a new schedule payout handler
func NewSchedulePayoutHandler(payments domain.PaymentRepository, payouts domain.PayoutRepository) *SchedulePayoutHandler {
	return &SchedulePayoutHandler{payments: payments, payouts: payouts, now: time.Now}
}

// Handle executes the schedule payout command. A payment joins at most one
// payout batch ever; redelivered completions are no-ops. Batches accumulate
// per seller, currency and calendar day of the scheduled disbursement.
func (h *SchedulePayoutHandler) Handle(cmd SchedulePayoutCommand) (*domain.Payout, error) {
	payment, err := h.payments.FindByID(cmd.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	if payment.SellerID == "" {
		return nil, fmt.Errorf("payment has no seller: %w", domain.ErrInvalidState)
	}

	scheduled, err := h.payouts.HasItemForPayment(payment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check payout items: %w", err)
	}
	if scheduled {
		return nil, nil
	}

	scheduledAt := h.now().Add(payoutDelay)
	dayStart := time.Date(scheduledAt.Year(), scheduledAt.Month(), scheduledAt.Day(), 0, 0, 0, 0, scheduledAt.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	payout, err := h.payouts.FindScheduledInWindow(payment.SellerID, payment.Currency, dayStart, dayEnd)
	if errors.Is(err, domain.ErrNotFound) {
		payout = &domain.Payout{
			ID:          uuid.New().String(),
			BatchID:     domain.NewBatchID(payment.SellerID, h.now()),
			SellerID:    payment.SellerID,
			Currency:    payment.Currency,
			Status:      domain.PayoutScheduled,
			ScheduledAt: scheduledAt,
			Provider:    domain.ProviderPaystack,
			BankDetails: domain.JSONMap{},
		}
		if err := h.payouts.Create(payout); err != nil {
			return nil, fmt.Errorf("failed to create payout batch: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to find payout batch: %w", err)
	}

	// The platform's cut was already deducted at breakdown time; item rows
	// carry net proceeds only, so item amounts sum to the batch total.
	item := &domain.PayoutItem{
		ID:         uuid.New().String(),
		PayoutID:   payout.ID,
		PaymentID:  payment.ID,
		Amount:     payment.SellerNet,
		Commission: decimal.Zero,
		Net:        payment.SellerNet,
	}
	if err := h.payouts.CreateItem(item); err != nil {
		// A concurrent delivery already scheduled this payment.
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create payout item: %w", err)
	}

	if err := h.payouts.IncrementTotal(payout.ID, payment.SellerNet); err != nil {
		return nil, fmt.Errorf("failed to update payout total: %w", err)
	}

	payout.TotalAmount = payout.TotalAmount.Add(payment.SellerNet)
	return payout, nil
}
