package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/geomarket/payments/internal/payment/domain"
)

func TestMemoryPayoutItemUniqueness(t *testing.T) {
	store := NewMemoryStore()
	payouts := store.Payouts()

	payout := &domain.Payout{ID: "po-1", SellerID: "s-1", Status: domain.PayoutScheduled, ScheduledAt: time.Now()}
	if err := payouts.Create(payout); err != nil {
		t.Fatalf("Create: %v", err)
	}

	item := &domain.PayoutItem{ID: "pi-1", PayoutID: "po-1", PaymentID: "pay-1", Net: decimal.NewFromInt(100)}
	if err := payouts.CreateItem(item); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	dup := &domain.PayoutItem{ID: "pi-2", PayoutID: "po-1", PaymentID: "pay-1", Net: decimal.NewFromInt(100)}
	if err := payouts.CreateItem(dup); !errors.Is(err, domain.ErrDuplicate) {
		t.Errorf("duplicate item: got %v, want ErrDuplicate", err)
	}
}

func TestMemoryInvoiceUniqueness(t *testing.T) {
	store := NewMemoryStore()
	invoices := store.Invoices()

	if err := invoices.Create(&domain.Invoice{ID: "i-1", PaymentID: "pay-1", InvoiceNumber: "INV-1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := invoices.Create(&domain.Invoice{ID: "i-2", PaymentID: "pay-1", InvoiceNumber: "INV-2"}); !errors.Is(err, domain.ErrDuplicate) {
		t.Errorf("duplicate invoice: got %v, want ErrDuplicate", err)
	}
}

func TestMemorySellerFinancials(t *testing.T) {
	store := NewMemoryStore()
	payments := store.Payments()

	completed := &domain.Payment{
		ID: "pay-1", Reference: "GEO_1", UserID: "u-1", SellerID: "s-1",
		Amount: decimal.NewFromInt(10000), PlatformCut: decimal.NewFromInt(400),
		SellerNet: decimal.NewFromInt(9600), Status: domain.StatusCompleted,
		Method: domain.MethodCard,
	}
	pending := &domain.Payment{
		ID: "pay-2", Reference: "GEO_2", UserID: "u-2", SellerID: "s-1",
		Amount: decimal.NewFromInt(5000), Status: domain.StatusPending,
		Method: domain.MethodCard,
	}
	for _, p := range []*domain.Payment{completed, pending} {
		if err := payments.Create(p); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	fin, err := store.Reporting().SellerFinancials("s-1")
	if err != nil {
		t.Fatalf("SellerFinancials: %v", err)
	}

	// Only completed payments count toward sales.
	if !fin.TotalSales.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("total sales: got %s, want 10000", fin.TotalSales)
	}
	if fin.TransactionCount != 1 {
		t.Errorf("transaction count: got %d, want 1", fin.TransactionCount)
	}
	if !fin.NetEarnings.Equal(decimal.NewFromInt(9600)) {
		t.Errorf("net earnings: got %s, want 9600", fin.NetEarnings)
	}
	if len(fin.RecentPayments) != 2 {
		t.Errorf("recent payments: got %d, want 2", len(fin.RecentPayments))
	}
}

func TestMemoryFinancialReport(t *testing.T) {
	store := NewMemoryStore()
	payments := store.Payments()
	now := time.Now()

	for i, m := range []domain.PaymentMethod{domain.MethodCard, domain.MethodCard, domain.MethodUSSD} {
		p := &domain.Payment{
			ID:        string(rune('a' + i)),
			Reference: "GEO_R" + string(rune('a'+i)),
			UserID:    "u-1",
			Amount:    decimal.NewFromInt(1000),
			Status:    domain.StatusCompleted,
			Method:    m,
			CreatedAt: now,
		}
		if err := payments.Create(p); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	report, err := store.Reporting().FinancialReport(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("FinancialReport: %v", err)
	}

	if report.Transactions != 3 {
		t.Errorf("transactions: got %d, want 3", report.Transactions)
	}
	if len(report.ByMethod) != 2 {
		t.Errorf("method rows: got %d, want 2", len(report.ByMethod))
	}
	if !report.TotalRevenue.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("total revenue: got %s, want 3000", report.TotalRevenue)
	}
}
