package command

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/geomarket/payments/internal/payment/domain"
)

func TestInitiatePayment(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.initiate.Handle(InitiatePaymentCommand{
		UserID:   "buyer-1",
		SellerID: "seller-1",
		Amount:   dec("10000"),
		Method:   domain.MethodCard,
		Category: "electronics",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	p := result.Payment
	if p.Status != domain.StatusPending {
		t.Errorf("status: got %s, want pending", p.Status)
	}
	if !strings.HasPrefix(p.Reference, "GEO_") {
		t.Errorf("reference %q missing GEO_ prefix", p.Reference)
	}
	if p.Provider != domain.ProviderPaystack {
		t.Errorf("provider for card: got %s, want paystack", p.Provider)
	}
	if p.Currency != "NGN" {
		t.Errorf("default currency: got %s, want NGN", p.Currency)
	}
	if p.EscrowStatus != nil {
		t.Errorf("escrow status on non-escrow payment: got %v, want nil", *p.EscrowStatus)
	}
	if p.PaidAt != nil {
		t.Errorf("paidAt on pending payment: got %v, want nil", p.PaidAt)
	}

	// Persisted amounts match the breakdown.
	if !p.SellerNet.Equal(result.Breakdown.SellerNet) {
		t.Errorf("seller net: payment %s != breakdown %s", p.SellerNet, result.Breakdown.SellerNet)
	}
	if !p.PlatformCut.Equal(result.Breakdown.PlatformCut) {
		t.Errorf("platform cut: payment %s != breakdown %s", p.PlatformCut, result.Breakdown.PlatformCut)
	}

	if result.Instructions.RedirectURL == "" {
		t.Error("card payment should carry a redirect URL")
	}

	// The payment is retrievable by reference.
	stored, err := env.store.Payments().FindByReference(p.Reference)
	if err != nil {
		t.Fatalf("FindByReference: %v", err)
	}
	if stored.ID != p.ID {
		t.Errorf("stored payment id: got %s, want %s", stored.ID, p.ID)
	}
}

func TestInitiatePaymentEscrow(t *testing.T) {
	env := newTestEnv(t)

	p := env.initiatePayment(t, InitiatePaymentCommand{SellerID: "seller-1", Escrow: true})

	if !p.Escrow {
		t.Fatal("payment not flagged as escrow")
	}
	if p.EscrowStatus == nil || *p.EscrowStatus != domain.EscrowHeld {
		t.Errorf("escrow status: got %v, want held", p.EscrowStatus)
	}
}

func TestInitiatePaymentValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		cmd  InitiatePaymentCommand
	}{
		{"missing user", InitiatePaymentCommand{Amount: dec("100"), Method: domain.MethodCard}},
		{"zero amount", InitiatePaymentCommand{UserID: "u", Method: domain.MethodCard}},
		{"negative amount", InitiatePaymentCommand{UserID: "u", Amount: dec("-5"), Method: domain.MethodCard}},
		{"bad method", InitiatePaymentCommand{UserID: "u", Amount: dec("100"), Method: "crypto"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.initiate.Handle(tc.cmd); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestInitiatePaymentProviderDerivation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		method   domain.PaymentMethod
		provider string
	}{
		{domain.MethodCard, domain.ProviderPaystack},
		{domain.MethodBankTransfer, domain.ProviderPaystack},
		{domain.MethodMobileMoney, domain.ProviderPaystack},
		{domain.MethodUSSD, domain.ProviderFlutterwave},
		{domain.MethodQR, domain.ProviderUnknown},
		{domain.MethodBank, domain.ProviderUnknown},
	}

	for _, tc := range cases {
		p := env.initiatePayment(t, InitiatePaymentCommand{
			UserID: "buyer-1",
			Amount: decimal.NewFromInt(500),
			Method: tc.method,
		})
		if p.Provider != tc.provider {
			t.Errorf("provider for %s: got %s, want %s", tc.method, p.Provider, tc.provider)
		}
	}
}
