package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayoutStatus tracks a payout batch. Processing and completion transitions
// are driven by an external disbursement runner, not by this service.
type PayoutStatus string

const (
	PayoutScheduled  PayoutStatus = "scheduled"
	PayoutProcessing PayoutStatus = "processing"
	PayoutCompleted  PayoutStatus = "completed"
	PayoutFailed     PayoutStatus = "failed"
)

// Payout is a per-seller, per-day batch of net proceeds awaiting transfer.
// At most one scheduled payout exists per seller, currency and calendar day.
type Payout struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid"`
	BatchID     string          `json:"batch_id" gorm:"index"`
	SellerID    string          `json:"seller_id" gorm:"not null;index;type:uuid"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:numeric(19,4)"`
	Currency    string          `json:"currency" gorm:"default:'NGN'"`
	Status      PayoutStatus    `json:"status" gorm:"default:'scheduled';index"`
	ScheduledAt time.Time       `json:"scheduled_at" gorm:"index"`
	Provider    string          `json:"provider"`
	BankDetails JSONMap         `json:"bank_details,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Payout) TableName() string {
	return "payouts"
}

// PayoutItem is one payment's contribution to a payout batch. Amount is the
// seller's net for the payment; the platform's cut is deducted at breakdown
// time and never enters the batch, so item amounts sum to the batch total.
// The unique index on payment_id is the guard against double-scheduling:
// two concurrent webhook deliveries can both pass the existence check, but
// only one insert wins.
type PayoutItem struct {
	ID         string          `json:"id" gorm:"primaryKey;type:uuid"`
	PayoutID   string          `json:"payout_id" gorm:"not null;index;type:uuid"`
	PaymentID  string          `json:"payment_id" gorm:"not null;uniqueIndex;type:uuid"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:numeric(19,4)"`
	Commission decimal.Decimal `json:"commission" gorm:"type:numeric(19,4)"`
	Net        decimal.Decimal `json:"net" gorm:"type:numeric(19,4)"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (PayoutItem) TableName() string {
	return "payout_items"
}

// PayoutRepository defines the contract for payout persistence.
type PayoutRepository interface {
	Create(payout *Payout) error
	// FindScheduledInWindow returns the scheduled payout for the seller and
	// currency whose scheduledAt falls within [dayStart, dayEnd), or
	// ErrNotFound.
	FindScheduledInWindow(sellerID, currency string, dayStart, dayEnd time.Time) (*Payout, error)
	HasItemForPayment(paymentID string) (bool, error)
	// CreateItem inserts the item, returning ErrDuplicate when an item for the
	// same payment already exists.
	CreateItem(item *PayoutItem) error
	// IncrementTotal adds amount to the payout's running total as an atomic
	// in-database increment, never read-modify-write.
	IncrementTotal(payoutID string, amount decimal.Decimal) error
	FindBySeller(sellerID string, limit, offset int) ([]Payout, int64, error)
}
