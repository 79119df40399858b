package handler

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/geomarket/payments/internal/payment/breakdown"
	"github.com/geomarket/payments/internal/payment/domain"
	"github.com/geomarket/payments/internal/payment/gateway"
	"github.com/geomarket/payments/internal/payment/repository"
	"github.com/geomarket/payments/internal/payment/usecase/command"
	"github.com/geomarket/payments/internal/payment/usecase/query"
	"github.com/geomarket/payments/pkg/auth"
)

const testPaystackSecret = "sk_test_handler"

func newTestRouter(t *testing.T) (*mux.Router, *repository.MemoryStore) {
	t.Helper()

	store := repository.NewMemoryStore()
	calc := breakdown.NewCalculator(store.TaxRules(), store.Schemes())

	payoutHandler := command.NewSchedulePayoutHandler(store.Payments(), store.Payouts())
	invoiceHandler := command.NewGenerateInvoiceHandler(store.Invoices())

	h := NewPaymentHandler(
		command.NewInitiatePaymentHandler(store.Payments(), calc),
		command.NewProcessWebhookHandler(store.Payments(), payoutHandler, invoiceHandler),
		command.NewReleaseEscrowHandler(store.Payments(), payoutHandler),
		command.NewProcessRefundHandler(store.Payments(), store.Refunds()),
		query.NewVerifyPaymentHandler(store.Payments()),
		query.NewGetPaymentConfigHandler(store.TaxRules(), store.Schemes()),
		query.NewListUserPaymentsHandler(store.Payments()),
		query.NewListSellerPayoutsHandler(store.Payouts()),
		query.NewGetSellerFinancialsHandler(store.Reporting()),
		query.NewGetFinancialReportHandler(store.Reporting()),
		calc,
		gateway.VerifierRegistry{
			domain.ProviderPaystack: gateway.PaystackVerifier{Secret: []byte(testPaystackSecret)},
		},
		gateway.NewRedisDeduper(nil, 0),
		nil,
	)

	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router, store
}

func bearerFor(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, "tester", role, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return "Bearer " + token
}

func doJSON(router *mux.Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
	return resp
}

func TestInitiateRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(router, "POST", "/api/payments/initiate", "", map[string]interface{}{
		"amount": "1000", "method": "card",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status without token: got %d, want 401", rec.Code)
	}
}

func TestInitiateAndVerifyFlow(t *testing.T) {
	router, store := newTestRouter(t)
	token := bearerFor(t, "buyer-1", "user")

	rec := doJSON(router, "POST", "/api/payments/initiate", token, map[string]interface{}{
		"seller_id": "seller-1",
		"amount":    "10000",
		"method":    "card",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("initiate status: got %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatalf("initiate failed: %s", resp.Error)
	}

	payments, _, err := store.Payments().FindByUser("buyer-1", "", 10, 0)
	if err != nil || len(payments) != 1 {
		t.Fatalf("stored payments: got %d err %v, want 1", len(payments), err)
	}
	reference := payments[0].Reference

	// Public verify endpoint reports pending.
	rec = doJSON(router, "GET", "/api/payments/"+reference, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status: got %d", rec.Code)
	}

	// Signed webhook completes the payment.
	body, _ := json.Marshal(map[string]interface{}{
		"event": "charge.success",
		"data":  map[string]interface{}{"reference": reference, "transaction_id": "gw-1"},
	})
	mac := hmac.New(sha512.New, []byte(testPaystackSecret))
	mac.Write(body)

	req := httptest.NewRequest("POST", "/api/payments/webhook/paystack", bytes.NewReader(body))
	req.Header.Set("x-paystack-signature", hex.EncodeToString(mac.Sum(nil)))
	webhookRec := httptest.NewRecorder()
	router.ServeHTTP(webhookRec, req)
	if webhookRec.Code != http.StatusOK {
		t.Fatalf("webhook status: got %d, body %s", webhookRec.Code, webhookRec.Body.String())
	}

	stored, err := store.Payments().FindByReference(reference)
	if err != nil {
		t.Fatalf("FindByReference: %v", err)
	}
	if stored.Status != domain.StatusCompleted {
		t.Errorf("status after webhook: got %s, want completed", stored.Status)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	router, _ := newTestRouter(t)

	body := []byte(`{"event":"charge.success","data":{"reference":"GEO_X"}}`)
	req := httptest.NewRequest("POST", "/api/payments/webhook/paystack", bytes.NewReader(body))
	req.Header.Set("x-paystack-signature", "deadbeef")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestWebhookRejectsUnknownProvider(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(router, "POST", "/api/payments/webhook/stripe", "", map[string]interface{}{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestCalculateEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(router, "POST", "/api/payments/calculate", "", map[string]interface{}{
		"amount": "10000",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data shape: %T", resp.Data)
	}
	if fmt.Sprint(data["seller_net"]) != "9600" {
		t.Errorf("seller_net: got %v, want 9600", data["seller_net"])
	}
}

func TestReportsRequireAdmin(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(router, "GET", "/api/reports/financial", bearerFor(t, "buyer-1", "user"), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin status: got %d, want 403", rec.Code)
	}

	rec = doJSON(router, "GET", "/api/reports/financial", bearerFor(t, "admin-1", "admin"), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("admin status: got %d, want 200", rec.Code)
	}
}
