package kafka

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentCompletedEvent announces a payment reaching completed status.
type PaymentCompletedEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	PaymentID string          `json:"payment_id"`
	Reference string          `json:"reference"`
	UserID    string          `json:"user_id"`
	SellerID  string          `json:"seller_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Method    string          `json:"method"`
	Escrow    bool            `json:"escrow"`
	Timestamp time.Time       `json:"timestamp"`
}

// PaymentRefundedEvent announces a refund being applied to a payment.
type PaymentRefundedEvent struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	PaymentID     string          `json:"payment_id"`
	RefundID      string          `json:"refund_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentStatus string          `json:"payment_status"`
	Timestamp     time.Time       `json:"timestamp"`
}

// PayoutScheduledEvent announces a payment joining a payout batch.
type PayoutScheduledEvent struct {
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	PayoutID    string          `json:"payout_id"`
	BatchID     string          `json:"batch_id"`
	SellerID    string          `json:"seller_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Event types
const (
	EventTypePaymentCompleted = "payment.completed"
	EventTypePaymentRefunded  = "payment.refunded"
	EventTypePayoutScheduled  = "payout.scheduled"
)

// Kafka topics
const (
	TopicPaymentCompleted = "payment-completed"
	TopicPaymentRefunded  = "payment-refunded"
	TopicPayoutScheduled  = "payout-scheduled"
)
