//go:build wireinject
// +build wireinject

package payment

import (
	"database/sql"

	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/geomarket/payments/internal/payment/breakdown"
	"github.com/geomarket/payments/internal/payment/domain"
	"github.com/geomarket/payments/internal/payment/gateway"
	"github.com/geomarket/payments/internal/payment/handler"
	"github.com/geomarket/payments/internal/payment/repository"
	"github.com/geomarket/payments/internal/payment/usecase/command"
	"github.com/geomarket/payments/internal/payment/usecase/query"
	"github.com/geomarket/payments/kafka"
)

// Repository providers
func ProvidePaymentRepository(db *gorm.DB) domain.PaymentRepository {
	return repository.NewGormPaymentRepository(db)
}

func ProvideRefundRepository(db *gorm.DB) domain.RefundRepository {
	return repository.NewGormRefundRepository(db)
}

func ProvidePayoutRepository(db *gorm.DB) domain.PayoutRepository {
	return repository.NewGormPayoutRepository(db)
}

func ProvideInvoiceRepository(db *gorm.DB) domain.InvoiceRepository {
	return repository.NewGormInvoiceRepository(db)
}

func ProvideTaxRuleRepository(db *gorm.DB) domain.TaxRuleRepository {
	return repository.NewGormTaxRuleRepository(db)
}

func ProvideSchemeRepository(db *gorm.DB) domain.RevenueSchemeRepository {
	return repository.NewGormSchemeRepository(db)
}

func ProvideReportingRepository(db *sql.DB) domain.ReportingRepository {
	return repository.NewPostgresReportingRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvidePaymentRepository,
	ProvideRefundRepository,
	ProvidePayoutRepository,
	ProvideInvoiceRepository,
	ProvideTaxRuleRepository,
	ProvideSchemeRepository,
	ProvideReportingRepository,
)

var CommandHandlerSet = wire.NewSet(
	command.NewInitiatePaymentHandler,
	command.NewSchedulePayoutHandler,
	command.NewGenerateInvoiceHandler,
	command.NewProcessWebhookHandler,
	command.NewReleaseEscrowHandler,
	command.NewProcessRefundHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewVerifyPaymentHandler,
	query.NewGetPaymentConfigHandler,
	query.NewListUserPaymentsHandler,
	query.NewListSellerPayoutsHandler,
	query.NewGetSellerFinancialsHandler,
	query.NewGetFinancialReportHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	breakdown.NewCalculator,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHandler initializes payment handler with all dependencies
func InitializeHandler(db *gorm.DB, reportDB *sql.DB, verifiers gateway.VerifierRegistry, deduper gateway.Deduper, publisher *kafka.Publisher) (*handler.PaymentHandler, error) {
	wire.Build(
		AllHandlersSet,
		handler.NewPaymentHandler,
	)
	return nil, nil
}
