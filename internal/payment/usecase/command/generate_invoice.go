package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/geomarket/payments/internal/payment/domain"
)

// GenerateInvoiceCommand represents the command to issue an invoice for a
// completed payment.
type GenerateInvoiceCommand struct {
	Payment *domain.Payment
}

// GenerateInvoiceHandler handles generate invoice command
type GenerateInvoiceHandler struct {
	invoices domain.InvoiceRepository
	now      func() time.Time
}

// NewGenerateInvoiceHandler creates a new generate invoice handler
func NewGenerateInvoiceHandler(invoices domain.InvoiceRepository) *GenerateInvoiceHandler {
	return &GenerateInvoiceHandler{invoices: invoices, now: time.Now}
}

// Handle executes the generate invoice command. Issuance is idempotent per
// payment; a redelivered completion returns the invoice already on file.
func (h *GenerateInvoiceHandler) Handle(cmd GenerateInvoiceCommand) (*domain.Invoice, error) {
	if cmd.Payment == nil {
		return nil, fmt.Errorf("payment is required")
	}

	now := h.now()
	invoiceType := domain.InvoiceTypeSale
	if cmd.Payment.ServiceRequestID != "" {
		invoiceType = domain.InvoiceTypeService
	}

	invoice := &domain.Invoice{
		ID:            uuid.New().String(),
		PaymentID:     cmd.Payment.ID,
		InvoiceNumber: domain.NewInvoiceNumber(now),
		Type:          invoiceType,
		Amount:        cmd.Payment.Amount,
		Tax:           cmd.Payment.Tax,
		Status:        "issued",
		Details: domain.JSONMap{
			"reference": cmd.Payment.Reference,
			"issued_at": now.Format(time.RFC3339),
		},
	}

	if err := h.invoices.Create(invoice); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return h.invoices.FindByPayment(cmd.Payment.ID)
		}
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	return invoice, nil
}
