package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SellerFinancials is the rollup of a seller's ledger activity.
type SellerFinancials struct {
	SellerID         string          `json:"seller_id"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	PlatformFees     decimal.Decimal `json:"platform_fees"`
	RefundsIssued    decimal.Decimal `json:"refunds_issued"`
	NetEarnings      decimal.Decimal `json:"net_earnings"`
	PendingPayouts   decimal.Decimal `json:"pending_payouts"`
	CompletedPayouts int64           `json:"completed_payouts"`
	TransactionCount int64           `json:"transaction_count"`
	RecentPayments   []Payment       `json:"recent_payments"`
	RecentPayouts    []Payout        `json:"recent_payouts"`
}

// MethodReportRow aggregates completed payments for one payment method
// within a reporting window.
type MethodReportRow struct {
	Method       PaymentMethod   `json:"method"`
	Transactions int64           `json:"transactions"`
	Revenue      decimal.Decimal `json:"revenue"`
	Fees         decimal.Decimal `json:"fees"`
	Refunds      decimal.Decimal `json:"refunds"`
}

// FinancialReport is the platform-wide aggregate over a date range.
type FinancialReport struct {
	StartDate    time.Time         `json:"start_date"`
	EndDate      time.Time         `json:"end_date"`
	TotalRevenue decimal.Decimal   `json:"total_revenue"`
	TotalFees    decimal.Decimal   `json:"total_fees"`
	TotalRefunds decimal.Decimal   `json:"total_refunds"`
	Transactions int64             `json:"transactions"`
	ByMethod     []MethodReportRow `json:"by_method"`
}

// ReportingRepository runs the read-only aggregations over the ledger.
type ReportingRepository interface {
	SellerFinancials(sellerID string) (*SellerFinancials, error)
	FinancialReport(start, end time.Time) (*FinancialReport, error)
}
