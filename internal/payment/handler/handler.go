package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/geomarket/payments/internal/payment/breakdown"
	"github.com/geomarket/payments/internal/payment/domain"
	"github.com/geomarket/payments/internal/payment/gateway"
	"github.com/geomarket/payments/internal/payment/usecase/command"
	"github.com/geomarket/payments/internal/payment/usecase/query"
	"github.com/geomarket/payments/kafka"
	"github.com/geomarket/payments/pkg/logger"
)

// PaymentHandler handles HTTP requests for payments using CQRS pattern
type PaymentHandler struct {
	// Command handlers
	initiateHandler *command.InitiatePaymentHandler
	webhookHandler  *command.ProcessWebhookHandler
	escrowHandler   *command.ReleaseEscrowHandler
	refundHandler   *command.ProcessRefundHandler

	// Query handlers
	verifyHandler     *query.VerifyPaymentHandler
	configHandler     *query.GetPaymentConfigHandler
	historyHandler    *query.ListUserPaymentsHandler
	payoutsHandler    *query.ListSellerPayoutsHandler
	financialsHandler *query.GetSellerFinancialsHandler
	reportHandler     *query.GetFinancialReportHandler

	calc           *breakdown.Calculator
	verifiers      gateway.VerifierRegistry
	deduper        gateway.Deduper
	kafkaPublisher *kafka.Publisher
}

// NewPaymentHandler creates a new payment handler using dependency injection
func NewPaymentHandler(
	initiateHandler *command.InitiatePaymentHandler,
	webhookHandler *command.ProcessWebhookHandler,
	escrowHandler *command.ReleaseEscrowHandler,
	refundHandler *command.ProcessRefundHandler,
	verifyHandler *query.VerifyPaymentHandler,
	configHandler *query.GetPaymentConfigHandler,
	historyHandler *query.ListUserPaymentsHandler,
	payoutsHandler *query.ListSellerPayoutsHandler,
	financialsHandler *query.GetSellerFinancialsHandler,
	reportHandler *query.GetFinancialReportHandler,
	calc *breakdown.Calculator,
	verifiers gateway.VerifierRegistry,
	deduper gateway.Deduper,
	kafkaPublisher *kafka.Publisher,
) *PaymentHandler {
	return &PaymentHandler{
		initiateHandler:   initiateHandler,
		webhookHandler:    webhookHandler,
		escrowHandler:     escrowHandler,
		refundHandler:     refundHandler,
		verifyHandler:     verifyHandler,
		configHandler:     configHandler,
		historyHandler:    historyHandler,
		payoutsHandler:    payoutsHandler,
		financialsHandler: financialsHandler,
		reportHandler:     reportHandler,
		calc:              calc,
		verifiers:         verifiers,
		deduper:           deduper,
		kafkaPublisher:    kafkaPublisher,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// InitiatePayment handles POST /api/payments/initiate
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SellerID         string               `json:"seller_id"`
		OrderID          string               `json:"order_id"`
		ServiceRequestID string               `json:"service_request_id"`
		Amount           decimal.Decimal      `json:"amount"`
		Currency         string               `json:"currency"`
		Method           domain.PaymentMethod `json:"method"`
		Escrow           bool                 `json:"escrow"`
		Category         string               `json:"category"`
		Description      string               `json:"description"`
		Metadata         domain.JSONMap       `json:"metadata"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   "Authentication required",
		})
		return
	}

	result, err := h.initiateHandler.Handle(command.InitiatePaymentCommand{
		UserID:           claims.UserID,
		SellerID:         req.SellerID,
		OrderID:          req.OrderID,
		ServiceRequestID: req.ServiceRequestID,
		Amount:           req.Amount,
		Currency:         req.Currency,
		Method:           req.Method,
		Escrow:           req.Escrow,
		Category:         req.Category,
		Description:      req.Description,
		Metadata:         req.Metadata,
	})
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Payment initiated",
		Data:    result,
	})
}

// CalculateBreakdown handles POST /api/payments/calculate
func (h *PaymentHandler) CalculateBreakdown(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
		SellerID string          `json:"seller_id"`
		Category string          `json:"category"`
		UserType string          `json:"user_type"`
		Escrow   bool            `json:"escrow"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if !req.Amount.GreaterThan(decimal.Zero) {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Amount must be greater than 0",
		})
		return
	}

	b := h.calc.Calculate(breakdown.Input{
		Amount:   req.Amount,
		Currency: req.Currency,
		SellerID: req.SellerID,
		Category: req.Category,
		UserType: req.UserType,
		Escrow:   req.Escrow,
	})

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    b,
	})
}

// GetPaymentConfig handles GET /api/payments/config
func (h *PaymentHandler) GetPaymentConfig(w http.ResponseWriter, r *http.Request) {
	config, err := h.configHandler.Handle()
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load payment config")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to load payment configuration",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    config,
	})
}

// Webhook handles POST /api/payments/webhook/{provider}
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	provider := mux.Vars(r)["provider"]
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Failed to read request body",
		})
		return
	}

	verifier := h.verifiers.For(provider)
	if verifier == nil {
		logger.Warn(ctx).Str("provider", provider).Msg("Webhook for unconfigured provider rejected")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Unknown webhook provider",
		})
		return
	}

	if !verifier.Verify(body, r.Header) {
		logger.Warn(ctx).Str("provider", provider).Msg("Webhook signature verification failed")
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   "Invalid webhook signature",
		})
		return
	}

	var payload command.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid webhook payload",
		})
		return
	}

	if !h.deduper.FirstDelivery(ctx, provider, payload.EventID()) {
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Duplicate delivery ignored",
		})
		return
	}

	result, err := h.webhookHandler.Handle(command.ProcessWebhookCommand{
		Provider: provider,
		Payload:  payload,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Unknown payment reference",
			})
			return
		}
		logger.Error(ctx).Err(err).Str("provider", provider).Msg("Failed to process webhook")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to process webhook",
		})
		return
	}

	if result.Completed {
		h.publishPaymentCompleted(r, result.Payment)
	}
	if result.Payout != nil {
		h.publishPayoutScheduled(r, result.Payout)
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Webhook processed",
	})
}

// VerifyPayment handles GET /api/payments/{reference}
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]

	result, err := h.verifyHandler.Handle(query.VerifyPaymentQuery{Reference: reference})
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("reference", reference).Msg("Failed to verify payment")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to verify payment",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// ReleaseEscrow handles POST /api/payments/{paymentId}/escrow/release
func (h *PaymentHandler) ReleaseEscrow(w http.ResponseWriter, r *http.Request) {
	paymentID := mux.Vars(r)["paymentId"]

	claims, _ := ClaimsFromContext(r.Context())
	releasedBy := ""
	if claims != nil {
		releasedBy = claims.UserID
	}

	result, err := h.escrowHandler.Handle(command.ReleaseEscrowCommand{
		PaymentID:  paymentID,
		ReleasedBy: releasedBy,
	})
	if err != nil {
		respondJSON(w, statusForError(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	if result.Payout != nil {
		h.publishPayoutScheduled(r, result.Payout)
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Escrow released",
		Data:    result.Payment,
	})
}

// ProcessRefund handles POST /api/payments/{paymentId}/refund
func (h *PaymentHandler) ProcessRefund(w http.ResponseWriter, r *http.Request) {
	paymentID := mux.Vars(r)["paymentId"]

	var req struct {
		Amount decimal.Decimal `json:"amount"`
		Reason string          `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	claims, _ := ClaimsFromContext(r.Context())
	requestedBy := ""
	if claims != nil {
		requestedBy = claims.UserID
	}

	result, err := h.refundHandler.Handle(command.ProcessRefundCommand{
		PaymentID:   paymentID,
		Amount:      req.Amount,
		Reason:      req.Reason,
		RequestedBy: requestedBy,
	})
	if err != nil {
		respondJSON(w, statusForError(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.publishPaymentRefunded(r, result)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Refund processed",
		Data:    result,
	})
}

// GetPaymentHistory handles GET /api/payments/history
func (h *PaymentHandler) GetPaymentHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   "Authentication required",
		})
		return
	}

	page, limit := pageParams(r)
	result, err := h.historyHandler.Handle(query.ListUserPaymentsQuery{
		UserID: claims.UserID,
		Status: domain.PaymentStatus(r.URL.Query().Get("status")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list payment history")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list payments",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// GetSellerPayouts handles GET /api/sellers/{sellerId}/payouts
func (h *PaymentHandler) GetSellerPayouts(w http.ResponseWriter, r *http.Request) {
	sellerID := mux.Vars(r)["sellerId"]

	page, limit := pageParams(r)
	result, err := h.payoutsHandler.Handle(query.ListSellerPayoutsQuery{
		SellerID: sellerID,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("seller_id", sellerID).Msg("Failed to list payouts")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list payouts",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// GetSellerFinancials handles GET /api/sellers/{sellerId}/financials
func (h *PaymentHandler) GetSellerFinancials(w http.ResponseWriter, r *http.Request) {
	sellerID := mux.Vars(r)["sellerId"]

	fin, err := h.financialsHandler.Handle(query.GetSellerFinancialsQuery{SellerID: sellerID})
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("seller_id", sellerID).Msg("Failed to load seller financials")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to load seller financials",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    fin,
	})
}

// GetFinancialReport handles GET /api/reports/financial
func (h *PaymentHandler) GetFinancialReport(w http.ResponseWriter, r *http.Request) {
	q, err := reportRange(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	report, err := h.reportHandler.Handle(q)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to build financial report")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to build financial report",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    report,
	})
}

func (h *PaymentHandler) publishPaymentCompleted(r *http.Request, payment *domain.Payment) {
	if h.kafkaPublisher == nil {
		return
	}
	err := h.kafkaPublisher.PublishPaymentCompleted(r.Context(), kafka.PaymentCompletedEvent{
		PaymentID: payment.ID,
		Reference: payment.Reference,
		UserID:    payment.UserID,
		SellerID:  payment.SellerID,
		Amount:    payment.Amount,
		Currency:  payment.Currency,
		Method:    string(payment.Method),
		Escrow:    payment.Escrow,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("payment_id", payment.ID).Msg("Failed to publish payment completed event")
	}
}

func (h *PaymentHandler) publishPaymentRefunded(r *http.Request, result *command.RefundResult) {
	if h.kafkaPublisher == nil {
		return
	}
	err := h.kafkaPublisher.PublishPaymentRefunded(r.Context(), kafka.PaymentRefundedEvent{
		PaymentID:     result.Refund.PaymentID,
		RefundID:      result.Refund.ID,
		Amount:        result.Refund.Amount,
		PaymentStatus: string(result.PaymentStatus),
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("payment_id", result.Refund.PaymentID).Msg("Failed to publish payment refunded event")
	}
}

func (h *PaymentHandler) publishPayoutScheduled(r *http.Request, payout *domain.Payout) {
	if h.kafkaPublisher == nil {
		return
	}
	err := h.kafkaPublisher.PublishPayoutScheduled(r.Context(), kafka.PayoutScheduledEvent{
		PayoutID:    payout.ID,
		BatchID:     payout.BatchID,
		SellerID:    payout.SellerID,
		TotalAmount: payout.TotalAmount,
		Currency:    payout.Currency,
		ScheduledAt: payout.ScheduledAt,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("payout_id", payout.ID).Msg("Failed to publish payout scheduled event")
	}
}

// statusForError maps domain errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}

func reportRange(r *http.Request) (query.GetFinancialReportQuery, error) {
	var q query.GetFinancialReportQuery

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return q, errors.New("invalid start_date, expected YYYY-MM-DD")
		}
		q.Start = start
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return q, errors.New("invalid end_date, expected YYYY-MM-DD")
		}
		// Inclusive end date: the range covers the whole final day.
		q.End = end.AddDate(0, 0, 1)
	}

	return q, nil
}

// RegisterRoutes registers all payment routes
func (h *PaymentHandler) RegisterRoutes(router *mux.Router) {
	// Public routes
	router.HandleFunc("/api/payments/calculate", h.CalculateBreakdown).Methods("POST")
	router.HandleFunc("/api/payments/config", h.GetPaymentConfig).Methods("GET")
	router.HandleFunc("/api/payments/webhook/{provider}", h.Webhook).Methods("POST")

	// Authenticated user routes (any logged-in user)
	router.HandleFunc("/api/payments/initiate", AuthMiddleware(h.InitiatePayment)).Methods("POST")
	router.HandleFunc("/api/payments/history", AuthMiddleware(h.GetPaymentHistory)).Methods("GET")
	router.HandleFunc("/api/payments/{paymentId}/escrow/release", AuthMiddleware(h.ReleaseEscrow)).Methods("POST")
	router.HandleFunc("/api/payments/{paymentId}/refund", AuthMiddleware(h.ProcessRefund)).Methods("POST")
	router.HandleFunc("/api/sellers/{sellerId}/financials", AuthMiddleware(h.GetSellerFinancials)).Methods("GET")
	router.HandleFunc("/api/sellers/{sellerId}/payouts", AuthMiddleware(h.GetSellerPayouts)).Methods("GET")

	// Admin routes (require admin role)
	router.HandleFunc("/api/reports/financial", AdminMiddleware(h.GetFinancialReport)).Methods("GET")
	router.HandleFunc("/api/reports/financial/export", AdminMiddleware(h.ExportFinancialReport)).Methods("GET")

	// Reference lookup goes last so it does not shadow the fixed paths.
	router.HandleFunc("/api/payments/{reference}", h.VerifyPayment).Methods("GET")
}

// RegisterHealthCheck registers health check endpoint
func (h *PaymentHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Payment service is healthy",
		})
	}).Methods("GET")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
