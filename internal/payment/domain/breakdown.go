package domain

import "github.com/shopspring/decimal"

// TaxLine is one tax applied to a transaction. Rate is expressed as a
// percentage (7.5 for a 0.075 rule) for display.
type TaxLine struct {
	Type   string          `json:"type"`
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// FeeLine is one fee retained by the platform. Rate is a percentage and may
// be absent for flat fees.
type FeeLine struct {
	Type   string           `json:"type"`
	Name   string           `json:"name"`
	Rate   *decimal.Decimal `json:"rate,omitempty"`
	Amount decimal.Decimal  `json:"amount"`
}

// Breakdown decomposes a gross amount into taxes, fees, the platform cut and
// the seller's net proceeds.
//
// Identities: Total = Subtotal + sum(taxes), PlatformCut = sum(fees) +
// sum(taxes), SellerNet = Subtotal - sum(fees). Fees come out of the seller's
// share and are not added to the payer-facing total.
type Breakdown struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Currency    string          `json:"currency"`
	Taxes       []TaxLine       `json:"taxes"`
	Fees        []FeeLine       `json:"fees"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	PlatformCut decimal.Decimal `json:"platform_cut"`
	SellerNet   decimal.Decimal `json:"seller_net"`
}

// TotalTaxes sums the tax line amounts.
func (b *Breakdown) TotalTaxes() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range b.Taxes {
		sum = sum.Add(t.Amount)
	}
	return sum
}

// TotalFees sums the fee line amounts.
func (b *Breakdown) TotalFees() decimal.Decimal {
	sum := decimal.Zero
	for _, f := range b.Fees {
		sum = sum.Add(f.Amount)
	}
	return sum
}
