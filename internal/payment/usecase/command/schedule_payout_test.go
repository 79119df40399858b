package command

import (
	"strings"
	"testing"
	"time"

	"github.com/geomarket/payments/internal/payment/domain"
)

func TestSchedulePayoutBatchesSameDay(t *testing.T) {
	env := newTestEnv(t)
	fixed := time.Date(2026, 5, 10, 14, 0, 0, 0, time.UTC)
	env.payout.now = func() time.Time { return fixed }

	first := env.initiatePayment(t, InitiatePaymentCommand{SellerID: "seller-1", Amount: dec("10000")})
	second := env.initiatePayment(t, InitiatePaymentCommand{SellerID: "seller-1", Amount: dec("5000")})
	env.completePayment(t, first)
	env.completePayment(t, second)

	payouts, total, err := env.store.Payouts().FindBySeller("seller-1", 10, 0)
	if err != nil {
		t.Fatalf("FindBySeller: %v", err)
	}
	if total != 1 {
		t.Fatalf("payout batches: got %d, want 1 (same-day batching)", total)
	}

	batch := payouts[0]
	want := first.SellerNet.Add(second.SellerNet)
	if !batch.TotalAmount.Equal(want) {
		t.Errorf("batch total: got %s, want %s", batch.TotalAmount, want)
	}
	if batch.Status != domain.PayoutScheduled {
		t.Errorf("batch status: got %s, want scheduled", batch.Status)
	}
	if !batch.ScheduledAt.Equal(fixed.Add(24 * time.Hour)) {
		t.Errorf("scheduledAt: got %v, want %v", batch.ScheduledAt, fixed.Add(24*time.Hour))
	}
	if !strings.HasPrefix(batch.BatchID, "BATCH_") {
		t.Errorf("batch id %q missing BATCH_ prefix", batch.BatchID)
	}
}

func TestSchedulePayoutItemCarriesNetProceeds(t *testing.T) {
	env := newTestEnv(t)

	// Default rates on 10000: 400 platform cut, 9600 seller net.
	p := env.initiatePayment(t, InitiatePaymentCommand{SellerID: "seller-1", Amount: dec("10000")})
	env.completePayment(t, p)

	item, ok := env.store.ItemForPayment(p.ID)
	if !ok {
		t.Fatal("no payout item for completed payment")
	}

	if !item.Amount.Equal(p.SellerNet) {
		t.Errorf("item amount: got %s, want seller net %s", item.Amount, p.SellerNet)
	}
	if !item.Commission.IsZero() {
		t.Errorf("item commission: got %s, want 0", item.Commission)
	}
	if !item.Net.Equal(item.Amount) {
		t.Errorf("item net: got %s, want amount %s", item.Net, item.Amount)
	}

	// The batch total and its only item agree.
	payouts, _, err := env.store.Payouts().FindBySeller("seller-1", 10, 0)
	if err != nil {
		t.Fatalf("FindBySeller: %v", err)
	}
	if !payouts[0].TotalAmount.Equal(item.Amount) {
		t.Errorf("batch total %s disagrees with item amount %s", payouts[0].TotalAmount, item.Amount)
	}
}

func TestSchedulePayoutSeparateCurrencies(t *testing.T) {
	env := newTestEnv(t)

	ngn := env.initiatePayment(t, InitiatePaymentCommand{SellerID: "seller-1", Currency: "NGN"})
	usd := env.initiatePayment(t, InitiatePaymentCommand{SellerID: "seller-1", Currency: "USD"})
	env.completePayment(t, ngn)
	env.completePayment(t, usd)

	payouts, total, err := env.store.Payouts().FindBySeller("seller-1", 10, 0)
	if err != nil {
		t.Fatalf("FindBySeller: %v", err)
	}
	if total != 2 {
		t.Fatalf("payout batches: got %d, want one per currency", total)
	}
	if payouts[0].Currency == payouts[1].Currency {
		t.Errorf("batches share currency %s", payouts[0].Currency)
	}
	for _, payout := range payouts {
		if !payout.TotalAmount.Equal(ngn.SellerNet) {
			t.Errorf("%s batch total: got %s, want %s", payout.Currency, payout.TotalAmount, ngn.SellerNet)
		}
	}
}

func TestSchedulePayoutSeparateSellers(t *testing.T) {
	env := newTestEnv(t)

	a := env.initiatePayment(t, InitiatePaymentCommand{SellerID: "seller-a"})
	b := env.initiatePayment(t, InitiatePaymentCommand{SellerID: "seller-b"})
	env.completePayment(t, a)
	env.completePayment(t, b)

	_, totalA, _ := env.store.Payouts().FindBySeller("seller-a", 10, 0)
	_, totalB, _ := env.store.Payouts().FindBySeller("seller-b", 10, 0)
	if totalA != 1 || totalB != 1 {
		t.Errorf("batches per seller: got a=%d b=%d, want 1 each", totalA, totalB)
	}
}

func TestSchedulePayoutIdempotent(t *testing.T) {
	env := newTestEnv(t)
	p := env.initiatePayment(t, InitiatePaymentCommand{SellerID: "seller-1"})
	env.completePayment(t, p)

	// Direct re-invocation, as a redelivered webhook would do.
	if _, err := env.payout.Handle(SchedulePayoutCommand{PaymentID: p.ID}); err != nil {
		t.Fatalf("second schedule: %v", err)
	}

	payouts, _, err := env.store.Payouts().FindBySeller("seller-1", 10, 0)
	if err != nil {
		t.Fatalf("FindBySeller: %v", err)
	}
	if !payouts[0].TotalAmount.Equal(p.SellerNet) {
		t.Errorf("batch total after reschedule: got %s, want %s", payouts[0].TotalAmount, p.SellerNet)
	}
}

func TestSchedulePayoutRequiresSeller(t *testing.T) {
	env := newTestEnv(t)
	p := env.initiatePayment(t, InitiatePaymentCommand{})

	if _, err := env.payout.Handle(SchedulePayoutCommand{PaymentID: p.ID}); err == nil {
		t.Error("expected error for payment without seller")
	}
}
