package command

import (
	"errors"
	"testing"

	"github.com/geomarket/payments/internal/payment/domain"
)

func TestRefundFullAmount(t *testing.T) {
	env := newTestEnv(t)
	p := env.initiatePayment(t, InitiatePaymentCommand{SellerID: "seller-1"})
	env.completePayment(t, p)

	result, err := env.refund.Handle(ProcessRefundCommand{
		PaymentID:   p.ID,
		Reason:      "item not delivered",
		RequestedBy: "admin-1",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if result.PaymentStatus != domain.StatusRefunded {
		t.Errorf("status: got %s, want refunded", result.PaymentStatus)
	}
	if !result.Refund.Amount.Equal(p.Amount) {
		t.Errorf("default refund amount: got %s, want %s", result.Refund.Amount, p.Amount)
	}
	if result.Refund.Status != "processing" {
		t.Errorf("refund status: got %s, want processing", result.Refund.Status)
	}
}

func TestRefundPartialAccumulates(t *testing.T) {
	env := newTestEnv(t)
	p := env.initiatePayment(t, InitiatePaymentCommand{SellerID: "seller-1", Amount: dec("10000")})
	env.completePayment(t, p)

	first, err := env.refund.Handle(ProcessRefundCommand{PaymentID: p.ID, Amount: dec("4000")})
	if err != nil {
		t.Fatalf("first refund: %v", err)
	}
	if first.PaymentStatus != domain.StatusPartiallyRefunded {
		t.Errorf("after partial: got %s, want partially_refunded", first.PaymentStatus)
	}

	second, err := env.refund.Handle(ProcessRefundCommand{PaymentID: p.ID, Amount: dec("6000")})
	if err != nil {
		t.Fatalf("second refund: %v", err)
	}
	if second.PaymentStatus != domain.StatusRefunded {
		t.Errorf("after aggregate reaches amount: got %s, want refunded", second.PaymentStatus)
	}

	refunds, err := env.store.Refunds().FindByPayment(p.ID)
	if err != nil {
		t.Fatalf("FindByPayment: %v", err)
	}
	if len(refunds) != 2 {
		t.Errorf("refund rows: got %d, want 2", len(refunds))
	}
}

func TestRefundRejectsUnsettledPayment(t *testing.T) {
	env := newTestEnv(t)
	p := env.initiatePayment(t, InitiatePaymentCommand{})

	_, err := env.refund.Handle(ProcessRefundCommand{PaymentID: p.ID})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("refund on pending: got %v, want ErrInvalidState", err)
	}
}

func TestRefundValidation(t *testing.T) {
	env := newTestEnv(t)
	p := env.initiatePayment(t, InitiatePaymentCommand{Amount: dec("1000")})
	env.completePayment(t, p)

	if _, err := env.refund.Handle(ProcessRefundCommand{PaymentID: p.ID, Amount: dec("-10")}); err == nil {
		t.Error("negative amount accepted")
	}
	if _, err := env.refund.Handle(ProcessRefundCommand{PaymentID: p.ID, Amount: dec("1500")}); err == nil {
		t.Error("refund above payment amount accepted")
	}
	if _, err := env.refund.Handle(ProcessRefundCommand{PaymentID: "missing"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing payment: got %v, want ErrNotFound", err)
	}
}
