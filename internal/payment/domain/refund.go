package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRefund is one refund request against a payment. A payment may carry
// several; the aggregate of their amounts decides whether the payment becomes
// refunded or partially_refunded.
type PaymentRefund struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid"`
	PaymentID   string          `json:"payment_id" gorm:"not null;index;type:uuid"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(19,4);not null"`
	Reason      string          `json:"reason"`
	Status      string          `json:"status" gorm:"default:'processing'"`
	RequestedBy string          `json:"requested_by" gorm:"type:uuid"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (PaymentRefund) TableName() string {
	return "payment_refunds"
}

// RefundRepository persists refunds and applies the resulting status
// transition to the parent payment.
type RefundRepository interface {
	// ApplyRefund inserts the refund, re-aggregates all refunds for the
	// payment and updates the payment status, all inside one transaction
	// holding a row lock on the payment. It returns the payment status after
	// the transition. Concurrent partial refunds therefore cannot both read a
	// stale aggregate.
	ApplyRefund(refund *PaymentRefund) (PaymentStatus, error)
	FindByPayment(paymentID string) ([]PaymentRefund, error)
}
