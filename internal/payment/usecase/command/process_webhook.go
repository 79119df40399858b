package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/geomarket/payments/internal/payment/domain"
	"github.com/geomarket/payments/pkg/logger"
)

// WebhookData is the transaction section of a gateway webhook payload. Only
// the fields the ledger needs are decoded.
type WebhookData struct {
	ID            string `json:"id"`
	TransactionID string `json:"transaction_id"`
	Reference     string `json:"reference"`
	TxRef         string `json:"tx_ref"`
	Status        string `json:"status"`
}

// WebhookPayload is a gateway webhook event envelope. Paystack and
// Flutterwave both fit this shape for the fields the ledger reads.
type WebhookPayload struct {
	Event string      `json:"event"`
	Data  WebhookData `json:"data"`
}

// EventID returns the delivery's dedup key, preferring the gateway's
// transaction id.
func (p WebhookPayload) EventID() string {
	if p.Data.TransactionID != "" {
		return p.Data.TransactionID
	}
	return p.Data.ID
}

// PaymentReference returns whichever reference field the gateway populated.
func (p WebhookPayload) PaymentReference() string {
	if p.Data.Reference != "" {
		return p.Data.Reference
	}
	return p.Data.TxRef
}

// ProcessWebhookCommand represents the command to apply a verified gateway
// webhook to the ledger.
type ProcessWebhookCommand struct {
	Provider string
	Payload  WebhookPayload
}

// WebhookResult reports what the webhook did to the payment.
type WebhookResult struct {
	Payment   *domain.Payment
	Completed bool           // true only when this delivery transitioned the payment into completed
	Payout    *domain.Payout // set when this delivery scheduled a payout batch
}

// ProcessWebhookHandler handles process webhook command
type ProcessWebhookHandler struct {
	payments domain.PaymentRepository
	payouts  *SchedulePayoutHandler
	invoices *GenerateInvoiceHandler
	now      func() time.Time
}

// NewProcessWebhookHandler creates a new process webhook handler
func NewProcessWebhookHandler(payments domain.PaymentRepository, payouts *SchedulePayoutHandler, invoices *GenerateInvoiceHandler) *ProcessWebhookHandler {
	return &ProcessWebhookHandler{payments: payments, payouts: payouts, invoices: invoices, now: time.Now}
}

// statusForEvent maps gateway event names onto payment statuses. Events the
// ledger does not recognize map to "" and leave the payment untouched.
func statusForEvent(event string) domain.PaymentStatus {
	switch event {
	case "charge.success", "charge.completed", "transfer.success":
		return domain.StatusCompleted
	case "charge.failed", "transfer.failed":
		return domain.StatusFailed
	case "charge.pending":
		return domain.StatusProcessing
	default:
		return ""
	}
}

// Handle executes the process webhook command. Completed payments never
// regress: redeliveries and late failure events for an already-completed
// payment are acknowledged without effect.
func (h *ProcessWebhookHandler) Handle(cmd ProcessWebhookCommand) (*WebhookResult, error) {
	reference := cmd.Payload.PaymentReference()
	if reference == "" {
		return nil, fmt.Errorf("webhook payload has no payment reference")
	}

	payment, err := h.payments.FindByReference(reference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("unknown payment reference %s: %w", reference, err)
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	next := statusForEvent(cmd.Payload.Event)
	if next == "" {
		logger.Logger.Info().
			Str("provider", cmd.Provider).
			Str("event", cmd.Payload.Event).
			Str("reference", reference).
			Msg("Ignoring unrecognized webhook event")
		return &WebhookResult{Payment: payment}, nil
	}

	switch payment.Status {
	case domain.StatusCompleted, domain.StatusRefunded, domain.StatusPartiallyRefunded:
		return &WebhookResult{Payment: payment}, nil
	}

	completed := next == domain.StatusCompleted && payment.Status != domain.StatusCompleted

	payment.Status = next
	if eventID := cmd.Payload.EventID(); eventID != "" {
		payment.ProviderRef = eventID
	}
	if completed {
		paidAt := h.now()
		payment.PaidAt = &paidAt
	}

	if err := h.payments.Update(payment); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	var payout *domain.Payout
	if completed {
		payout = h.settle(payment)
	}

	return &WebhookResult{Payment: payment, Completed: completed, Payout: payout}, nil
}

// settle runs the post-completion side effects and returns the payout batch
// this payment joined, if any. Both effects are best effort: the gateway
// already has its acknowledgement, and both are idempotent retries on the
// next delivery.
func (h *ProcessWebhookHandler) settle(payment *domain.Payment) *domain.Payout {
	var payout *domain.Payout
	if payment.SellerID != "" && !payment.Escrow {
		var err error
		payout, err = h.payouts.Handle(SchedulePayoutCommand{PaymentID: payment.ID})
		if err != nil {
			logger.Logger.Error().Err(err).
				Str("payment_id", payment.ID).
				Msg("Failed to schedule payout for completed payment")
		}
	}

	if _, err := h.invoices.Handle(GenerateInvoiceCommand{Payment: payment}); err != nil {
		logger.Logger.Error().Err(err).
			Str("payment_id", payment.ID).
			Msg("Failed to generate invoice for completed payment")
	}

	return payout
}
