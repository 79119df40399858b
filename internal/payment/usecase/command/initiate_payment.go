package command

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/geomarket/payments/internal/payment/breakdown"
	"github.com/geomarket/payments/internal/payment/domain"
	"github.com/geomarket/payments/internal/payment/gateway"
)

// InitiatePaymentCommand represents the command to initiate a payment
type InitiatePaymentCommand struct {
	UserID           string
	SellerID         string
	OrderID          string
	ServiceRequestID string
	Amount           decimal.Decimal
	Currency         string
	Method           domain.PaymentMethod
	Escrow           bool
	Category         string
	UserType         string
	Description      string
	Metadata         domain.JSONMap
}

// InitiatePaymentResult bundles the created payment with its financial
// breakdown and the checkout instructions for the chosen method.
type InitiatePaymentResult struct {
	Payment      *domain.Payment      `json:"payment"`
	Breakdown    *domain.Breakdown    `json:"breakdown"`
	Instructions gateway.Instructions `json:"payment_instructions"`
}

// InitiatePaymentHandler handles initiate payment command
type InitiatePaymentHandler struct {
	repo domain.PaymentRepository
	calc *breakdown.Calculator
}

// NewInitiatePaymentHandler creates a new initiate payment handler
func NewInitiatePaymentHandler(repo domain.PaymentRepository, calc *breakdown.Calculator) *InitiatePaymentHandler {
	return &InitiatePaymentHandler{repo: repo, calc: calc}
}

// Handle executes the initiate payment command
func (h *InitiatePaymentHandler) Handle(cmd InitiatePaymentCommand) (*InitiatePaymentResult, error) {
	if cmd.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	if !cmd.Amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("amount must be greater than 0")
	}

	if !domain.IsValidMethod(cmd.Method) {
		return nil, fmt.Errorf("unsupported payment method: %s", cmd.Method)
	}

	if cmd.Currency == "" {
		cmd.Currency = "NGN"
	}

	b := h.calc.Calculate(breakdown.Input{
		Amount:   cmd.Amount,
		Currency: cmd.Currency,
		SellerID: cmd.SellerID,
		Category: cmd.Category,
		UserType: cmd.UserType,
		Escrow:   cmd.Escrow,
	})

	reference := domain.NewPaymentReference()

	payment := &domain.Payment{
		ID:               uuid.New().String(),
		Reference:        reference,
		UserID:           cmd.UserID,
		SellerID:         cmd.SellerID,
		OrderID:          cmd.OrderID,
		ServiceRequestID: cmd.ServiceRequestID,
		Amount:           cmd.Amount,
		Currency:         cmd.Currency,
		Tax:              b.TotalTaxes(),
		PlatformCut:      b.PlatformCut,
		SellerNet:        b.SellerNet,
		Status:           domain.StatusPending,
		Method:           cmd.Method,
		Provider:         domain.ProviderForMethod(cmd.Method),
		Escrow:           cmd.Escrow,
		Description:      cmd.Description,
		Metadata:         cmd.Metadata,
	}

	if cmd.Escrow {
		held := domain.EscrowHeld
		payment.EscrowStatus = &held
	}

	if err := h.repo.Create(payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return &InitiatePaymentResult{
		Payment:      payment,
		Breakdown:    b,
		Instructions: gateway.BuildInstructions(cmd.Method, reference, cmd.Amount, cmd.Currency),
	}, nil
}
