package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// InitiatePayment godoc
// @Summary Initiate a payment
// @Description Create a pending payment with its financial breakdown and checkout instructions
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{seller_id=string,amount=number,currency=string,method=string,escrow=bool,category=string} true "Payment data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/payments/initiate [post]
func (h *PaymentHandler) InitiatePaymentDoc() {}

// Webhook godoc
// @Summary Gateway webhook
// @Description Receive a signed payment gateway webhook delivery
// @Tags Payments
// @Accept json
// @Produce json
// @Param provider path string true "Gateway provider"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/payments/webhook/{provider} [post]
func (h *PaymentHandler) WebhookDoc() {}

// VerifyPayment godoc
// @Summary Verify a payment
// @Description Look up the status of a payment by its reference
// @Tags Payments
// @Produce json
// @Param reference path string true "Payment reference"
// @Success 200 {object} object{success=bool,data=object{status=string}}
// @Router /api/payments/{reference} [get]
func (h *PaymentHandler) VerifyPaymentDoc() {}

// GetFinancialReport godoc
// @Summary Platform financial report
// @Description Aggregate revenue, fees and refunds by payment method (Admin only)
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/reports/financial [get]
func (h *PaymentHandler) GetFinancialReportDoc() {}
