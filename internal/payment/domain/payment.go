package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks a payment through its lifecycle.
type PaymentStatus string

const (
	StatusPending           PaymentStatus = "pending"
	StatusProcessing        PaymentStatus = "processing"
	StatusCompleted         PaymentStatus = "completed"
	StatusFailed            PaymentStatus = "failed"
	StatusRefunded          PaymentStatus = "refunded"
	StatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

// PaymentMethod is the single method enum shared by the API and the ledger.
type PaymentMethod string

const (
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodUSSD         PaymentMethod = "ussd"
	MethodQR           PaymentMethod = "qr"
	MethodMobileMoney  PaymentMethod = "mobile_money"
	MethodBank         PaymentMethod = "bank"
)

// IsValidMethod reports whether m is one of the supported payment methods.
func IsValidMethod(m PaymentMethod) bool {
	switch m {
	case MethodCard, MethodBankTransfer, MethodUSSD, MethodQR, MethodMobileMoney, MethodBank:
		return true
	default:
		return false
	}
}

// Gateway providers.
const (
	ProviderPaystack    = "paystack"
	ProviderFlutterwave = "flutterwave"
	ProviderUnknown     = "unknown"
)

// ProviderForMethod maps a payment method to the gateway that processes it.
func ProviderForMethod(m PaymentMethod) string {
	switch m {
	case MethodCard, MethodBankTransfer, MethodMobileMoney:
		return ProviderPaystack
	case MethodUSSD:
		return ProviderFlutterwave
	default:
		return ProviderUnknown
	}
}

// EscrowStatus is set only on escrow payments.
type EscrowStatus string

const (
	EscrowHeld     EscrowStatus = "held"
	EscrowReleased EscrowStatus = "released"
	EscrowDisputed EscrowStatus = "disputed"
)

// Payment is one monetary transaction on the platform ledger.
//
// The accounting identity at creation time is
// sellerNet + platformCut == amount + tax: taxes are a payer-side
// passthrough while fees come out of the seller's share.
type Payment struct {
	ID        string `json:"id" gorm:"primaryKey;type:uuid"`
	Reference string `json:"reference" gorm:"not null;uniqueIndex"`

	UserID   string `json:"user_id" gorm:"not null;index;type:uuid"`
	SellerID string `json:"seller_id,omitempty" gorm:"index;type:uuid"`

	OrderID          string `json:"order_id,omitempty" gorm:"index"`
	ServiceRequestID string `json:"service_request_id,omitempty" gorm:"index"`

	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(19,4);not null"`
	Currency    string          `json:"currency" gorm:"default:'NGN'"`
	Tax         decimal.Decimal `json:"tax" gorm:"type:numeric(19,4)"`
	PlatformCut decimal.Decimal `json:"platform_cut" gorm:"type:numeric(19,4)"`
	SellerNet   decimal.Decimal `json:"seller_net" gorm:"type:numeric(19,4)"`

	Status      PaymentStatus `json:"status" gorm:"default:'pending';index"`
	Method      PaymentMethod `json:"method" gorm:"not null"`
	Provider    string        `json:"provider"`
	ProviderRef string        `json:"provider_ref,omitempty"`

	Escrow       bool          `json:"escrow"`
	EscrowStatus *EscrowStatus `json:"escrow_status,omitempty"`

	Description string  `json:"description,omitempty"`
	Metadata    JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentRepository defines the contract for payment persistence.
type PaymentRepository interface {
	Create(payment *Payment) error
	FindByID(id string) (*Payment, error)
	FindByReference(reference string) (*Payment, error)
	Update(payment *Payment) error
	UpdateEscrowStatus(id string, status EscrowStatus) error
	// FindByUser returns a page of the user's payments, newest first, plus the
	// total row count. An empty status matches all statuses.
	FindByUser(userID string, status PaymentStatus, limit, offset int) ([]Payment, int64, error)
}
