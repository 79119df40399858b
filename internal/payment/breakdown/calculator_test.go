package breakdown

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/geomarket/payments/internal/payment/domain"
)

type stubTaxRules struct {
	rules []domain.TaxRule
	err   error
}

func (s *stubTaxRules) FindActive() ([]domain.TaxRule, error) {
	return s.rules, s.err
}

type stubSchemes struct {
	scheme *domain.RevenueShareScheme
	err    error
}

func (s *stubSchemes) FindActiveScheme(category string) (*domain.RevenueShareScheme, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.scheme == nil {
		return nil, domain.ErrNotFound
	}
	return s.scheme, nil
}

func (s *stubSchemes) FindActive() ([]domain.RevenueShareScheme, error) {
	if s.scheme == nil {
		return nil, nil
	}
	return []domain.RevenueShareScheme{*s.scheme}, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculateDefaults(t *testing.T) {
	calc := NewCalculator(&stubTaxRules{}, &stubSchemes{})

	b := calc.Calculate(Input{Amount: dec("10000")})

	if b.Currency != "NGN" {
		t.Errorf("currency: got %s, want NGN", b.Currency)
	}
	if len(b.Taxes) != 0 {
		t.Errorf("taxes: got %d lines, want 0", len(b.Taxes))
	}
	if len(b.Fees) != 2 {
		t.Fatalf("fees: got %d lines, want 2 (platform, processing)", len(b.Fees))
	}

	// 2.5% platform default + 1.5% processing on 10000.
	if !b.Fees[0].Amount.Equal(dec("250")) {
		t.Errorf("platform fee: got %s, want 250", b.Fees[0].Amount)
	}
	if !b.Fees[1].Amount.Equal(dec("150")) {
		t.Errorf("processing fee: got %s, want 150", b.Fees[1].Amount)
	}

	if !b.Total.Equal(dec("10000")) {
		t.Errorf("total: got %s, want 10000", b.Total)
	}
	if !b.PlatformCut.Equal(dec("400")) {
		t.Errorf("platform cut: got %s, want 400", b.PlatformCut)
	}
	if !b.SellerNet.Equal(dec("9600")) {
		t.Errorf("seller net: got %s, want 9600", b.SellerNet)
	}
	if !b.Discount.IsZero() {
		t.Errorf("discount: got %s, want 0", b.Discount)
	}
}

func TestCalculateWithTaxes(t *testing.T) {
	taxRules := &stubTaxRules{rules: []domain.TaxRule{
		{ID: "vat", Type: "vat", Name: "VAT", Rate: dec("0.075"), IsActive: true},
	}}
	calc := NewCalculator(taxRules, &stubSchemes{})

	b := calc.Calculate(Input{Amount: dec("10000"), Currency: "NGN"})

	if len(b.Taxes) != 1 {
		t.Fatalf("taxes: got %d lines, want 1", len(b.Taxes))
	}
	if !b.Taxes[0].Amount.Equal(dec("750")) {
		t.Errorf("VAT amount: got %s, want 750", b.Taxes[0].Amount)
	}
	// Rate is reported as a percentage.
	if !b.Taxes[0].Rate.Equal(dec("7.5")) {
		t.Errorf("VAT rate: got %s, want 7.5", b.Taxes[0].Rate)
	}

	// Taxes are payer-side: total grows, seller net does not shrink.
	if !b.Total.Equal(dec("10750")) {
		t.Errorf("total: got %s, want 10750", b.Total)
	}
	if !b.SellerNet.Equal(dec("9600")) {
		t.Errorf("seller net: got %s, want 9600", b.SellerNet)
	}
	if !b.PlatformCut.Equal(dec("1150")) {
		t.Errorf("platform cut: got %s, want 1150", b.PlatformCut)
	}

	// Accounting identity: sellerNet + platformCut == amount + taxes.
	left := b.SellerNet.Add(b.PlatformCut)
	right := b.Subtotal.Add(b.TotalTaxes())
	if !left.Equal(right) {
		t.Errorf("accounting identity broken: %s != %s", left, right)
	}
}

func TestCalculateEscrowFee(t *testing.T) {
	calc := NewCalculator(&stubTaxRules{}, &stubSchemes{})

	plain := calc.Calculate(Input{Amount: dec("10000")})
	escrowed := calc.Calculate(Input{Amount: dec("10000"), Escrow: true})

	if len(escrowed.Fees) != len(plain.Fees)+1 {
		t.Fatalf("escrow fees: got %d lines, want %d", len(escrowed.Fees), len(plain.Fees)+1)
	}
	// 1% of 10000.
	diff := plain.SellerNet.Sub(escrowed.SellerNet)
	if !diff.Equal(dec("100")) {
		t.Errorf("escrow fee effect on seller net: got %s, want 100", diff)
	}
}

func TestCalculateSchemeOverride(t *testing.T) {
	schemes := &stubSchemes{scheme: &domain.RevenueShareScheme{
		ID:                 "electronics",
		Name:               "Electronics Commission",
		PlatformPercentage: dec("0.05"),
		Category:           "electronics",
		IsActive:           true,
		CreatedAt:          time.Now(),
	}}
	calc := NewCalculator(&stubTaxRules{}, schemes)

	b := calc.Calculate(Input{Amount: dec("10000"), Category: "electronics"})

	if b.Fees[0].Name != "Electronics Commission" {
		t.Errorf("platform fee name: got %q", b.Fees[0].Name)
	}
	if !b.Fees[0].Amount.Equal(dec("500")) {
		t.Errorf("platform fee: got %s, want 500", b.Fees[0].Amount)
	}
}

func TestCalculateConfigFailureDegradesToDefaults(t *testing.T) {
	calc := NewCalculator(
		&stubTaxRules{err: errors.New("db down")},
		&stubSchemes{err: errors.New("db down")},
	)

	b := calc.Calculate(Input{Amount: dec("10000")})

	if len(b.Taxes) != 0 {
		t.Errorf("taxes under config failure: got %d lines, want 0", len(b.Taxes))
	}
	if !b.Fees[0].Amount.Equal(dec("250")) {
		t.Errorf("platform fee under config failure: got %s, want 250 (default rate)", b.Fees[0].Amount)
	}
}

func TestCalculateRounding(t *testing.T) {
	taxRules := &stubTaxRules{rules: []domain.TaxRule{
		{ID: "vat", Type: "vat", Name: "VAT", Rate: dec("0.075"), IsActive: true},
	}}
	calc := NewCalculator(taxRules, &stubSchemes{})

	b := calc.Calculate(Input{Amount: dec("99.99")})

	// 99.99 * 0.075 = 7.49925 -> 7.50
	if !b.Taxes[0].Amount.Equal(dec("7.50")) {
		t.Errorf("rounded VAT: got %s, want 7.50", b.Taxes[0].Amount)
	}
	// 99.99 * 0.025 = 2.49975 -> 2.50
	if !b.Fees[0].Amount.Equal(dec("2.50")) {
		t.Errorf("rounded platform fee: got %s, want 2.50", b.Fees[0].Amount)
	}
}
