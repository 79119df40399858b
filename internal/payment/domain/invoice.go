package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice types.
const (
	InvoiceTypeSale    = "sale"
	InvoiceTypeService = "service"
	InvoiceTypeRefund  = "refund"
)

// Invoice is issued once when a payment completes. The unique index on
// payment_id makes issuance idempotent under webhook redelivery.
type Invoice struct {
	ID            string          `json:"id" gorm:"primaryKey;type:uuid"`
	PaymentID     string          `json:"payment_id" gorm:"not null;uniqueIndex;type:uuid"`
	InvoiceNumber string          `json:"invoice_number" gorm:"not null;uniqueIndex"`
	Type          string          `json:"type" gorm:"default:'sale'"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(19,4)"`
	Tax           decimal.Decimal `json:"tax" gorm:"type:numeric(19,4)"`
	Status        string          `json:"status" gorm:"default:'issued'"`
	Details       JSONMap         `json:"details,omitempty" gorm:"type:jsonb"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceRepository defines the contract for invoice persistence.
type InvoiceRepository interface {
	// Create inserts the invoice, returning ErrDuplicate when one already
	// exists for the payment.
	Create(invoice *Invoice) error
	FindByPayment(paymentID string) (*Invoice, error)
}
