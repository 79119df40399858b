package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxRule is read-only platform configuration. Every active rule applies
// additively to every transaction.
type TaxRule struct {
	ID        string          `json:"id" gorm:"primaryKey;type:uuid"`
	Type      string          `json:"type"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate" gorm:"type:numeric(9,6)"` // fraction, e.g. 0.075
	IsActive  bool            `json:"is_active" gorm:"index"`
	CreatedAt time.Time       `json:"created_at"`
}

func (TaxRule) TableName() string {
	return "tax_rules"
}

// RevenueShareScheme configures the platform's cut of a transaction,
// optionally scoped to a product category.
type RevenueShareScheme struct {
	ID                 string          `json:"id" gorm:"primaryKey;type:uuid"`
	Name               string          `json:"name"`
	PlatformPercentage decimal.Decimal `json:"platform_percentage" gorm:"type:numeric(9,6)"` // fraction
	Category           string          `json:"category,omitempty" gorm:"index"`
	IsActive           bool            `json:"is_active" gorm:"index"`
	CreatedAt          time.Time       `json:"created_at"`
}

func (RevenueShareScheme) TableName() string {
	return "revenue_share_schemes"
}

// TaxRuleRepository reads tax configuration.
type TaxRuleRepository interface {
	FindActive() ([]TaxRule, error)
}

// RevenueSchemeRepository reads revenue-share configuration.
type RevenueSchemeRepository interface {
	// FindActiveScheme returns the most recently created active scheme for
	// the category, falling back to the most recent platform-wide scheme.
	// It returns ErrNotFound when no active scheme exists.
	FindActiveScheme(category string) (*RevenueShareScheme, error)
	FindActive() ([]RevenueShareScheme, error)
}

// MethodInfo describes one entry of the static payment method catalogue
// returned by the config endpoint. It is advisory metadata for clients, not
// derived from the fee rules used in settlement.
type MethodInfo struct {
	Method    PaymentMethod   `json:"method"`
	Name      string          `json:"name"`
	Provider  string          `json:"provider"`
	FeeRate   decimal.Decimal `json:"fee_rate"`
	FlatFee   decimal.Decimal `json:"flat_fee"`
	MinAmount decimal.Decimal `json:"min_amount"`
	MaxAmount decimal.Decimal `json:"max_amount"`
}

// MethodCatalogue returns the supported payment methods with their fee and
// limit metadata.
func MethodCatalogue() []MethodInfo {
	return []MethodInfo{
		{Method: MethodCard, Name: "Debit/Credit Card", Provider: ProviderPaystack, FeeRate: decimal.NewFromFloat(0.015), FlatFee: decimal.NewFromInt(100), MinAmount: decimal.NewFromInt(100), MaxAmount: decimal.NewFromInt(10_000_000)},
		{Method: MethodBankTransfer, Name: "Bank Transfer", Provider: ProviderPaystack, FeeRate: decimal.NewFromFloat(0.01), FlatFee: decimal.NewFromInt(50), MinAmount: decimal.NewFromInt(100), MaxAmount: decimal.NewFromInt(50_000_000)},
		{Method: MethodUSSD, Name: "USSD", Provider: ProviderFlutterwave, FeeRate: decimal.NewFromFloat(0.015), FlatFee: decimal.Zero, MinAmount: decimal.NewFromInt(100), MaxAmount: decimal.NewFromInt(500_000)},
		{Method: MethodQR, Name: "QR Code", Provider: ProviderUnknown, FeeRate: decimal.NewFromFloat(0.0075), FlatFee: decimal.Zero, MinAmount: decimal.NewFromInt(100), MaxAmount: decimal.NewFromInt(2_000_000)},
		{Method: MethodMobileMoney, Name: "Mobile Money", Provider: ProviderPaystack, FeeRate: decimal.NewFromFloat(0.015), FlatFee: decimal.Zero, MinAmount: decimal.NewFromInt(100), MaxAmount: decimal.NewFromInt(1_000_000)},
		{Method: MethodBank, Name: "Direct Bank Debit", Provider: ProviderUnknown, FeeRate: decimal.NewFromFloat(0.01), FlatFee: decimal.Zero, MinAmount: decimal.NewFromInt(1000), MaxAmount: decimal.NewFromInt(100_000_000)},
	}
}

// SupportedCurrencies lists the currencies payments may be denominated in.
func SupportedCurrencies() []string {
	return []string{"NGN", "USD", "GHS", "KES", "ZAR"}
}
