package command

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/geomarket/payments/internal/payment/breakdown"
	"github.com/geomarket/payments/internal/payment/domain"
	"github.com/geomarket/payments/internal/payment/repository"
)

// testEnv wires the command handlers over an in-memory store.
type testEnv struct {
	store    *repository.MemoryStore
	initiate *InitiatePaymentHandler
	webhook  *ProcessWebhookHandler
	escrow   *ReleaseEscrowHandler
	refund   *ProcessRefundHandler
	payout   *SchedulePayoutHandler
	invoice  *GenerateInvoiceHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repository.NewMemoryStore()
	calc := breakdown.NewCalculator(store.TaxRules(), store.Schemes())

	payout := NewSchedulePayoutHandler(store.Payments(), store.Payouts())
	invoice := NewGenerateInvoiceHandler(store.Invoices())

	return &testEnv{
		store:    store,
		initiate: NewInitiatePaymentHandler(store.Payments(), calc),
		webhook:  NewProcessWebhookHandler(store.Payments(), payout, invoice),
		escrow:   NewReleaseEscrowHandler(store.Payments(), payout),
		refund:   NewProcessRefundHandler(store.Payments(), store.Refunds()),
		payout:   payout,
		invoice:  invoice,
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// initiatePayment creates a pending payment through the initiate handler.
func (env *testEnv) initiatePayment(t *testing.T, cmd InitiatePaymentCommand) *domain.Payment {
	t.Helper()

	if cmd.UserID == "" {
		cmd.UserID = "buyer-1"
	}
	if cmd.Amount.IsZero() {
		cmd.Amount = dec("10000")
	}
	if cmd.Method == "" {
		cmd.Method = domain.MethodCard
	}

	result, err := env.initiate.Handle(cmd)
	if err != nil {
		t.Fatalf("initiate payment: %v", err)
	}
	return result.Payment
}

// completePayment drives a pending payment to completed via a success webhook.
func (env *testEnv) completePayment(t *testing.T, payment *domain.Payment) *domain.Payment {
	t.Helper()

	result, err := env.webhook.Handle(ProcessWebhookCommand{
		Provider: payment.Provider,
		Payload: WebhookPayload{
			Event: "charge.success",
			Data:  WebhookData{Reference: payment.Reference, TransactionID: "gw-" + payment.ID},
		},
	})
	if err != nil {
		t.Fatalf("complete payment: %v", err)
	}
	return result.Payment
}
