package command

import (
	"errors"
	"testing"

	"github.com/geomarket/payments/internal/payment/domain"
)

func TestReleaseEscrow(t *testing.T) {
	env := newTestEnv(t)
	p := env.initiatePayment(t, InitiatePaymentCommand{SellerID: "seller-1", Escrow: true})
	env.completePayment(t, p)

	released, err := env.escrow.Handle(ReleaseEscrowCommand{PaymentID: p.ID, ReleasedBy: "buyer-1"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if released.Payment.EscrowStatus == nil || *released.Payment.EscrowStatus != domain.EscrowReleased {
		t.Errorf("escrow status: got %v, want released", released.Payment.EscrowStatus)
	}

	// Release is what makes the funds payable.
	scheduled, err := env.store.Payouts().HasItemForPayment(p.ID)
	if err != nil || !scheduled {
		t.Errorf("payout not scheduled after release: scheduled=%v err=%v", scheduled, err)
	}
	if released.Payout == nil {
		t.Fatal("release result missing the scheduled payout")
	}
	if !released.Payout.TotalAmount.Equal(p.SellerNet) {
		t.Errorf("payout total: got %s, want %s", released.Payout.TotalAmount, p.SellerNet)
	}
}

func TestReleaseEscrowInvalidStates(t *testing.T) {
	env := newTestEnv(t)

	nonEscrow := env.initiatePayment(t, InitiatePaymentCommand{SellerID: "seller-1"})
	if _, err := env.escrow.Handle(ReleaseEscrowCommand{PaymentID: nonEscrow.ID}); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("non-escrow release: got %v, want ErrInvalidState", err)
	}

	escrowed := env.initiatePayment(t, InitiatePaymentCommand{SellerID: "seller-1", Escrow: true})
	if _, err := env.escrow.Handle(ReleaseEscrowCommand{PaymentID: escrowed.ID}); err != nil {
		t.Fatalf("first release: %v", err)
	}
	// Second release finds the escrow no longer held.
	if _, err := env.escrow.Handle(ReleaseEscrowCommand{PaymentID: escrowed.ID}); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("double release: got %v, want ErrInvalidState", err)
	}

	if _, err := env.escrow.Handle(ReleaseEscrowCommand{PaymentID: "missing"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing payment: got %v, want ErrNotFound", err)
	}
}
