// Package gateway holds the boundary to the payment gateways: checkout
// instruction templates, webhook signature verification and delivery
// deduplication. No real gateway API calls are made from this service.
package gateway

import (
	"encoding/base64"
	"fmt"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/geomarket/payments/internal/payment/domain"
	"github.com/geomarket/payments/pkg/logger"
)

// Demo collection account used in bank-transfer instructions.
const (
	collectionAccountName   = "GeoMarket Payments Ltd"
	collectionAccountBank   = "Providus Bank"
	collectionAccountNumber = "9901234567"
)

// Instructions tells the payer how to complete a payment for a given method.
type Instructions struct {
	RedirectURL  string `json:"redirect_url,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	QRCode       string `json:"qr_code,omitempty"` // base64 PNG
}

// BuildInstructions renders the method-specific checkout instructions for a
// pending payment. These are static templates parameterized by amount and
// reference, not live gateway sessions.
func BuildInstructions(method domain.PaymentMethod, reference string, amount decimal.Decimal, currency string) Instructions {
	display := fmt.Sprintf("%s %s", currency, amount.StringFixed(2))

	switch method {
	case domain.MethodCard:
		return Instructions{
			RedirectURL: fmt.Sprintf("https://checkout.paystack.com/pay/%s", reference),
		}

	case domain.MethodBankTransfer, domain.MethodBank:
		return Instructions{
			Instructions: fmt.Sprintf(
				"Transfer %s to:\nAccount Name: %s\nBank: %s\nAccount Number: %s\nNarration: %s\n\nYour payment is confirmed automatically once the transfer arrives.",
				display, collectionAccountName, collectionAccountBank, collectionAccountNumber, reference,
			),
		}

	case domain.MethodUSSD:
		plain := amount.StringFixed(0)
		return Instructions{
			Instructions: fmt.Sprintf(
				"Dial one of the codes below and follow the prompts:\nGTBank: *737*50*%s*321#\nZenith Bank: *966*%s*%s#\nUBA: *919*4*%s*%s#",
				plain, plain, collectionAccountNumber, collectionAccountNumber, plain,
			),
		}

	case domain.MethodMobileMoney:
		return Instructions{
			Instructions: fmt.Sprintf("Dial *123*1*%s# on your registered line and approve the %s charge.", reference, display),
		}

	case domain.MethodQR:
		return Instructions{
			Instructions: fmt.Sprintf("Scan the QR code with your banking app to pay %s.", display),
			QRCode:       encodeQR(reference),
		}

	default:
		return Instructions{}
	}
}

func encodeQR(reference string) string {
	payload := fmt.Sprintf("https://checkout.paystack.com/pay/%s", reference)
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		logger.Logger.Warn().Err(err).Str("reference", reference).Msg("Failed to render payment QR code")
		return ""
	}
	return base64.StdEncoding.EncodeToString(png)
}
