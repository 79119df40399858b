package query

import (
	"fmt"

	"github.com/geomarket/payments/internal/payment/domain"
)

// PaymentConfig is the public payment configuration served to clients.
type PaymentConfig struct {
	Methods    []domain.MethodInfo         `json:"payment_methods"`
	Currencies []string                    `json:"currencies"`
	TaxRules   []domain.TaxRule            `json:"tax_rules"`
	Schemes    []domain.RevenueShareScheme `json:"revenue_share_schemes"`
}

// GetPaymentConfigHandler handles get payment config query
type GetPaymentConfigHandler struct {
	taxRules domain.TaxRuleRepository
	schemes  domain.RevenueSchemeRepository
}

// NewGetPaymentConfigHandler creates a new get payment config handler
func NewGetPaymentConfigHandler(taxRules domain.TaxRuleRepository, schemes domain.RevenueSchemeRepository) *GetPaymentConfigHandler {
	return &GetPaymentConfigHandler{taxRules: taxRules, schemes: schemes}
}

// Handle executes the get payment config query
func (h *GetPaymentConfigHandler) Handle() (*PaymentConfig, error) {
	rules, err := h.taxRules.FindActive()
	if err != nil {
		return nil, fmt.Errorf("failed to load tax rules: %w", err)
	}

	schemes, err := h.schemes.FindActive()
	if err != nil {
		return nil, fmt.Errorf("failed to load revenue schemes: %w", err)
	}

	return &PaymentConfig{
		Methods:    domain.MethodCatalogue(),
		Currencies: domain.SupportedCurrencies(),
		TaxRules:   rules,
		Schemes:    schemes,
	}, nil
}
