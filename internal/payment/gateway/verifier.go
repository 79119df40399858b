package gateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"os"

	"github.com/geomarket/payments/internal/payment/domain"
)

// Verifier authenticates one provider's webhook deliveries.
type Verifier interface {
	Verify(body []byte, headers http.Header) bool
}

// VerifierRegistry resolves the verifier for a provider name. Deliveries for
// providers without a registered verifier are rejected.
type VerifierRegistry map[string]Verifier

// For returns the verifier registered for provider, or nil.
func (r VerifierRegistry) For(provider string) Verifier {
	return r[provider]
}

// NewVerifierRegistryFromEnv builds the registry with secrets from the
// environment. A provider whose secret is unset stays unregistered, so its
// deliveries are rejected rather than waved through.
func NewVerifierRegistryFromEnv() VerifierRegistry {
	registry := VerifierRegistry{}
	if secret := os.Getenv("PAYSTACK_SECRET_KEY"); secret != "" {
		registry[domain.ProviderPaystack] = PaystackVerifier{Secret: []byte(secret)}
	}
	if hash := os.Getenv("FLUTTERWAVE_VERIF_HASH"); hash != "" {
		registry[domain.ProviderFlutterwave] = FlutterwaveVerifier{VerifHash: hash}
	}
	return registry
}

// PaystackVerifier checks the x-paystack-signature header: an HMAC-SHA512 of
// the raw request body keyed with the account's secret key.
type PaystackVerifier struct {
	Secret []byte
}

func (v PaystackVerifier) Verify(body []byte, headers http.Header) bool {
	signature := headers.Get("x-paystack-signature")
	if signature == "" {
		return false
	}

	mac := hmac.New(sha512.New, v.Secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// FlutterwaveVerifier checks the verif-hash header against the shared secret
// configured on the dashboard.
type FlutterwaveVerifier struct {
	VerifHash string
}

func (v FlutterwaveVerifier) Verify(body []byte, headers http.Header) bool {
	received := headers.Get("verif-hash")
	if received == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(v.VerifHash), []byte(received)) == 1
}
