package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/geomarket/payments/internal/payment/domain"
)

// PostgresReportingRepository runs the read-only financial aggregations as
// raw SQL over database/sql. Rollups stay in the database instead of paging
// ledger rows through the ORM.
type PostgresReportingRepository struct {
	db *sql.DB
}

func NewPostgresReportingRepository(db *sql.DB) *PostgresReportingRepository {
	return &PostgresReportingRepository{db: db}
}

func (r *PostgresReportingRepository) SellerFinancials(sellerID string) (*domain.SellerFinancials, error) {
	fin := &domain.SellerFinancials{SellerID: sellerID}

	err := r.db.QueryRow(`
		SELECT
			COALESCE(SUM(amount), 0),
			COALESCE(SUM(platform_cut), 0),
			COALESCE(SUM(seller_net), 0),
			COUNT(*)
		FROM payments
		WHERE seller_id = $1 AND status = 'completed'
	`, sellerID).Scan(&fin.TotalSales, &fin.PlatformFees, &fin.NetEarnings, &fin.TransactionCount)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate seller sales: %w", err)
	}

	err = r.db.QueryRow(`
		SELECT COALESCE(SUM(r.amount), 0)
		FROM payment_refunds r
		JOIN payments p ON p.id = r.payment_id
		WHERE p.seller_id = $1
	`, sellerID).Scan(&fin.RefundsIssued)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate seller refunds: %w", err)
	}

	err = r.db.QueryRow(`
		SELECT
			COALESCE(SUM(total_amount) FILTER (WHERE status = 'scheduled'), 0),
			COUNT(*) FILTER (WHERE status = 'completed')
		FROM payouts
		WHERE seller_id = $1
	`, sellerID).Scan(&fin.PendingPayouts, &fin.CompletedPayouts)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate seller payouts: %w", err)
	}

	fin.RecentPayments, err = r.recentPayments(sellerID)
	if err != nil {
		return nil, err
	}

	fin.RecentPayouts, err = r.recentPayouts(sellerID)
	if err != nil {
		return nil, err
	}

	return fin, nil
}

func (r *PostgresReportingRepository) recentPayments(sellerID string) ([]domain.Payment, error) {
	rows, err := r.db.Query(`
		SELECT id, reference, user_id, amount, currency, status, method, created_at
		FROM payments
		WHERE seller_id = $1
		ORDER BY created_at DESC
		LIMIT 10
	`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent payments: %w", err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p := domain.Payment{SellerID: sellerID}
		if err := rows.Scan(&p.ID, &p.Reference, &p.UserID, &p.Amount, &p.Currency, &p.Status, &p.Method, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PostgresReportingRepository) recentPayouts(sellerID string) ([]domain.Payout, error) {
	rows, err := r.db.Query(`
		SELECT id, batch_id, total_amount, currency, status, scheduled_at, created_at
		FROM payouts
		WHERE seller_id = $1
		ORDER BY scheduled_at DESC
		LIMIT 10
	`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent payouts: %w", err)
	}
	defer rows.Close()

	payouts := []domain.Payout{}
	for rows.Next() {
		p := domain.Payout{SellerID: sellerID}
		if err := rows.Scan(&p.ID, &p.BatchID, &p.TotalAmount, &p.Currency, &p.Status, &p.ScheduledAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payout: %w", err)
		}
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}

func (r *PostgresReportingRepository) FinancialReport(start, end time.Time) (*domain.FinancialReport, error) {
	report := &domain.FinancialReport{
		StartDate:    start,
		EndDate:      end,
		TotalRevenue: decimal.Zero,
		TotalFees:    decimal.Zero,
		TotalRefunds: decimal.Zero,
		ByMethod:     []domain.MethodReportRow{},
	}

	rows, err := r.db.Query(`
		SELECT
			p.method,
			COUNT(*),
			COALESCE(SUM(p.amount), 0),
			COALESCE(SUM(p.platform_cut), 0),
			COALESCE((
				SELECT SUM(r.amount)
				FROM payment_refunds r
				JOIN payments rp ON rp.id = r.payment_id
				WHERE rp.method = p.method AND r.created_at >= $1 AND r.created_at < $2
			), 0)
		FROM payments p
		WHERE p.status IN ('completed', 'refunded', 'partially_refunded')
		  AND p.created_at >= $1 AND p.created_at < $2
		GROUP BY p.method
		ORDER BY p.method
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate financial report: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row domain.MethodReportRow
		if err := rows.Scan(&row.Method, &row.Transactions, &row.Revenue, &row.Fees, &row.Refunds); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		report.ByMethod = append(report.ByMethod, row)
		report.TotalRevenue = report.TotalRevenue.Add(row.Revenue)
		report.TotalFees = report.TotalFees.Add(row.Fees)
		report.TotalRefunds = report.TotalRefunds.Add(row.Refunds)
		report.Transactions += row.Transactions
	}

	return report, rows.Err()
}
