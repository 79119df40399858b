// Package breakdown computes the financial decomposition of a gross payment
// amount: tax lines, fee lines, the platform cut and the seller net.
package breakdown

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/geomarket/payments/internal/payment/domain"
	"github.com/geomarket/payments/pkg/logger"
)

// Fee rates fixed by platform policy. The platform fee itself comes from the
// active revenue-share scheme and only falls back to the default when no
// scheme is configured.
var (
	DefaultPlatformRate = decimal.NewFromFloat(0.025)
	ProcessingFeeRate   = decimal.NewFromFloat(0.015)
	EscrowFeeRate       = decimal.NewFromFloat(0.01)
)

var oneHundred = decimal.NewFromInt(100)

// Input carries the parameters of a breakdown calculation. UserType is
// accepted for API compatibility; scheme scoping keys on Category only.
type Input struct {
	Amount   decimal.Decimal
	Currency string
	SellerID string
	Category string
	UserType string
	Escrow   bool
}

// Calculator derives breakdowns from the active tax and revenue-share
// configuration. It is deterministic for a fixed config snapshot.
type Calculator struct {
	taxRules domain.TaxRuleRepository
	schemes  domain.RevenueSchemeRepository
}

// NewCalculator creates a breakdown calculator over the given config
// repositories.
func NewCalculator(taxRules domain.TaxRuleRepository, schemes domain.RevenueSchemeRepository) *Calculator {
	return &Calculator{taxRules: taxRules, schemes: schemes}
}

// Calculate computes the breakdown for a positive amount. Callers validate
// the amount; missing configuration degrades to defaults and never fails the
// calculation.
func (c *Calculator) Calculate(in Input) *domain.Breakdown {
	if in.Currency == "" {
		in.Currency = "NGN"
	}

	b := &domain.Breakdown{
		Subtotal: in.Amount,
		Currency: in.Currency,
		Taxes:    []domain.TaxLine{},
		Fees:     []domain.FeeLine{},
		Discount: decimal.Zero,
	}

	for _, rule := range c.activeTaxRules() {
		b.Taxes = append(b.Taxes, domain.TaxLine{
			Type:   rule.Type,
			Name:   rule.Name,
			Rate:   rule.Rate.Mul(oneHundred),
			Amount: in.Amount.Mul(rule.Rate).Round(2),
		})
	}

	platformRate, platformName := c.platformRate(in.Category)

	platformPct := platformRate.Mul(oneHundred)
	b.Fees = append(b.Fees, domain.FeeLine{
		Type:   "platform",
		Name:   platformName,
		Rate:   &platformPct,
		Amount: in.Amount.Mul(platformRate).Round(2),
	})

	processingPct := ProcessingFeeRate.Mul(oneHundred)
	b.Fees = append(b.Fees, domain.FeeLine{
		Type:   "processing",
		Name:   "Payment Processing Fee",
		Rate:   &processingPct,
		Amount: in.Amount.Mul(ProcessingFeeRate).Round(2),
	})

	if in.Escrow {
		escrowPct := EscrowFeeRate.Mul(oneHundred)
		b.Fees = append(b.Fees, domain.FeeLine{
			Type:   "escrow",
			Name:   "Escrow Service Fee",
			Rate:   &escrowPct,
			Amount: in.Amount.Mul(EscrowFeeRate).Round(2),
		})
	}

	totalTaxes := b.TotalTaxes()
	totalFees := b.TotalFees()

	// Taxes are collected from the payer on top of the amount; fees come out
	// of the seller's share. Taxes therefore do not reduce the seller net.
	b.Total = in.Amount.Add(totalTaxes)
	b.PlatformCut = totalFees.Add(totalTaxes)
	b.SellerNet = in.Amount.Sub(totalFees)

	return b
}

func (c *Calculator) activeTaxRules() []domain.TaxRule {
	rules, err := c.taxRules.FindActive()
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to load tax rules, applying none")
		return nil
	}
	return rules
}

func (c *Calculator) platformRate(category string) (decimal.Decimal, string) {
	scheme, err := c.schemes.FindActiveScheme(category)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Logger.Warn().Err(err).Msg("Failed to load revenue scheme, using default platform rate")
		}
		return DefaultPlatformRate, "Platform Fee"
	}
	if scheme.Name == "" {
		return scheme.PlatformPercentage, "Platform Fee"
	}
	return scheme.PlatformPercentage, scheme.Name
}
