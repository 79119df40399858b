package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/geomarket/payments/internal/payment/domain"
)

// Migrate creates or updates the ledger schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Payment{},
		&domain.PaymentRefund{},
		&domain.Payout{},
		&domain.PayoutItem{},
		&domain.Invoice{},
		&domain.TaxRule{},
		&domain.RevenueShareScheme{},
	)
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// GormPaymentRepository persists payments with GORM.
type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) Create(payment *domain.Payment) error {
	return r.db.Create(payment).Error
}

func (r *GormPaymentRepository) FindByID(id string) (*domain.Payment, error) {
	var payment domain.Payment
	if err := r.db.Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &payment, nil
}

func (r *GormPaymentRepository) FindByReference(reference string) (*domain.Payment, error) {
	var payment domain.Payment
	if err := r.db.Where("reference = ?", reference).First(&payment).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &payment, nil
}

func (r *GormPaymentRepository) Update(payment *domain.Payment) error {
	return r.db.Save(payment).Error
}

func (r *GormPaymentRepository) UpdateEscrowStatus(id string, status domain.EscrowStatus) error {
	result := r.db.Model(&domain.Payment{}).
		Where("id = ?", id).
		Update("escrow_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormPaymentRepository) FindByUser(userID string, status domain.PaymentStatus, limit, offset int) ([]domain.Payment, int64, error) {
	query := r.db.Model(&domain.Payment{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []domain.Payment
	err := query.
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&payments).Error
	return payments, total, err
}

// GormRefundRepository persists refunds and drives the refund status
// transition on the parent payment.
type GormRefundRepository struct {
	db *gorm.DB
}

func NewGormRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

// ApplyRefund runs insert, aggregate and status update in one transaction,
// locking the payment row so concurrent refunds serialize on the aggregate.
func (r *GormRefundRepository) ApplyRefund(refund *domain.PaymentRefund) (domain.PaymentStatus, error) {
	var finalStatus domain.PaymentStatus

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var payment domain.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", refund.PaymentID).
			First(&payment).Error; err != nil {
			return translateNotFound(err)
		}

		if err := tx.Create(refund).Error; err != nil {
			return err
		}

		var totalRefunded decimal.Decimal
		if err := tx.Model(&domain.PaymentRefund{}).
			Where("payment_id = ?", refund.PaymentID).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&totalRefunded).Error; err != nil {
			return err
		}

		finalStatus = payment.Status
		switch {
		case totalRefunded.GreaterThanOrEqual(payment.Amount):
			finalStatus = domain.StatusRefunded
		case totalRefunded.GreaterThan(decimal.Zero):
			finalStatus = domain.StatusPartiallyRefunded
		}

		if finalStatus != payment.Status {
			if err := tx.Model(&domain.Payment{}).
				Where("id = ?", payment.ID).
				Update("status", finalStatus).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return finalStatus, nil
}

func (r *GormRefundRepository) FindByPayment(paymentID string) ([]domain.PaymentRefund, error) {
	var refunds []domain.PaymentRefund
	err := r.db.Where("payment_id = ?", paymentID).
		Order("created_at ASC").
		Find(&refunds).Error
	return refunds, err
}

// GormPayoutRepository persists payout batches and their items.
type GormPayoutRepository struct {
	db *gorm.DB
}

func NewGormPayoutRepository(db *gorm.DB) *GormPayoutRepository {
	return &GormPayoutRepository{db: db}
}

func (r *GormPayoutRepository) Create(payout *domain.Payout) error {
	return r.db.Create(payout).Error
}

func (r *GormPayoutRepository) FindScheduledInWindow(sellerID, currency string, dayStart, dayEnd time.Time) (*domain.Payout, error) {
	var payout domain.Payout
	err := r.db.Where("seller_id = ? AND currency = ? AND status = ? AND scheduled_at >= ? AND scheduled_at < ?",
		sellerID, currency, domain.PayoutScheduled, dayStart, dayEnd).
		First(&payout).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &payout, nil
}

func (r *GormPayoutRepository) HasItemForPayment(paymentID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.PayoutItem{}).
		Where("payment_id = ?", paymentID).
		Count(&count).Error
	return count > 0, err
}

// CreateItem relies on the unique index on payment_id: a concurrent insert
// that loses the race surfaces as ErrDuplicate instead of a second item.
func (r *GormPayoutRepository) CreateItem(item *domain.PayoutItem) error {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "payment_id"}},
		DoNothing: true,
	}).Create(item)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrDuplicate
	}
	return nil
}

func (r *GormPayoutRepository) IncrementTotal(payoutID string, amount decimal.Decimal) error {
	return r.db.Model(&domain.Payout{}).
		Where("id = ?", payoutID).
		Update("total_amount", gorm.Expr("total_amount + ?", amount)).Error
}

func (r *GormPayoutRepository) FindBySeller(sellerID string, limit, offset int) ([]domain.Payout, int64, error) {
	query := r.db.Model(&domain.Payout{}).Where("seller_id = ?", sellerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payouts []domain.Payout
	err := query.
		Order("scheduled_at DESC").
		Limit(limit).Offset(offset).
		Find(&payouts).Error
	return payouts, total, err
}

// GormInvoiceRepository persists invoices.
type GormInvoiceRepository struct {
	db *gorm.DB
}

func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func (r *GormInvoiceRepository) Create(invoice *domain.Invoice) error {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "payment_id"}},
		DoNothing: true,
	}).Create(invoice)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrDuplicate
	}
	return nil
}

func (r *GormInvoiceRepository) FindByPayment(paymentID string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	if err := r.db.Where("payment_id = ?", paymentID).First(&invoice).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &invoice, nil
}

// GormTaxRuleRepository reads tax rule configuration.
type GormTaxRuleRepository struct {
	db *gorm.DB
}

func NewGormTaxRuleRepository(db *gorm.DB) *GormTaxRuleRepository {
	return &GormTaxRuleRepository{db: db}
}

func (r *GormTaxRuleRepository) FindActive() ([]domain.TaxRule, error) {
	var rules []domain.TaxRule
	err := r.db.Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tax rules: %w", err)
	}
	return rules, nil
}

// GormSchemeRepository reads revenue-share schemes.
type GormSchemeRepository struct {
	db *gorm.DB
}

func NewGormSchemeRepository(db *gorm.DB) *GormSchemeRepository {
	return &GormSchemeRepository{db: db}
}

func (r *GormSchemeRepository) FindActiveScheme(category string) (*domain.RevenueShareScheme, error) {
	var scheme domain.RevenueShareScheme

	if category != "" {
		err := r.db.Where("is_active = ? AND category = ?", true, category).
			Order("created_at DESC").
			First(&scheme).Error
		if err == nil {
			return &scheme, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	err := r.db.Where("is_active = ? AND (category IS NULL OR category = '')", true).
		Order("created_at DESC").
		First(&scheme).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &scheme, nil
}

func (r *GormSchemeRepository) FindActive() ([]domain.RevenueShareScheme, error) {
	var schemes []domain.RevenueShareScheme
	err := r.db.Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&schemes).Error
	return schemes, err
}
