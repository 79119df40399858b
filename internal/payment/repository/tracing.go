package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/geomarket/payments/internal/payment/domain"
)

var tracer = otel.Tracer("payment-repository")

// GormPaymentRepositoryWithTracing wraps GormPaymentRepository with tracing
type GormPaymentRepositoryWithTracing struct {
	*GormPaymentRepository
}

// NewGormPaymentRepositoryWithTracing creates a new repository with tracing
func NewGormPaymentRepositoryWithTracing(db *gorm.DB) *GormPaymentRepositoryWithTracing {
	return &GormPaymentRepositoryWithTracing{
		GormPaymentRepository: NewGormPaymentRepository(db),
	}
}

// Create with tracing
func (r *GormPaymentRepositoryWithTracing) CreateWithContext(ctx context.Context, payment *domain.Payment) error {
	_, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("payment.reference", payment.Reference),
			attribute.String("payment.method", string(payment.Method)),
			attribute.String("payment.amount", payment.Amount.String()),
		),
	)
	defer span.End()

	err := r.GormPaymentRepository.Create(payment)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.String("payment.id", payment.ID))
	return nil
}

// FindByID with tracing
func (r *GormPaymentRepositoryWithTracing) FindByIDWithContext(ctx context.Context, id string) (*domain.Payment, error) {
	_, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(
			attribute.String("payment.id", id),
		),
	)
	defer span.End()

	payment, err := r.GormPaymentRepository.FindByID(id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("payment.reference", payment.Reference),
		attribute.String("payment.status", string(payment.Status)),
	)
	return payment, nil
}

// FindByReference with tracing
func (r *GormPaymentRepositoryWithTracing) FindByReferenceWithContext(ctx context.Context, reference string) (*domain.Payment, error) {
	_, span := tracer.Start(ctx, "repository.FindByReference",
		trace.WithAttributes(
			attribute.String("payment.reference", reference),
		),
	)
	defer span.End()

	payment, err := r.GormPaymentRepository.FindByReference(reference)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("payment.id", payment.ID),
		attribute.String("payment.status", string(payment.Status)),
	)
	return payment, nil
}

// Update with tracing
func (r *GormPaymentRepositoryWithTracing) UpdateWithContext(ctx context.Context, payment *domain.Payment) error {
	_, span := tracer.Start(ctx, "repository.Update",
		trace.WithAttributes(
			attribute.String("payment.id", payment.ID),
			attribute.String("payment.status", string(payment.Status)),
		),
	)
	defer span.End()

	err := r.GormPaymentRepository.Update(payment)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// UpdateEscrowStatus with tracing
func (r *GormPaymentRepositoryWithTracing) UpdateEscrowStatusWithContext(ctx context.Context, id string, status domain.EscrowStatus) error {
	_, span := tracer.Start(ctx, "repository.UpdateEscrowStatus",
		trace.WithAttributes(
			attribute.String("payment.id", id),
			attribute.String("payment.escrow_status", string(status)),
		),
	)
	defer span.End()

	err := r.GormPaymentRepository.UpdateEscrowStatus(id, status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// FindByUser with tracing
func (r *GormPaymentRepositoryWithTracing) FindByUserWithContext(ctx context.Context, userID string, status domain.PaymentStatus, limit, offset int) ([]domain.Payment, int64, error) {
	_, span := tracer.Start(ctx, "repository.FindByUser",
		trace.WithAttributes(
			attribute.String("payment.user_id", userID),
			attribute.String("payment.status", string(status)),
			attribute.Int("limit", limit),
			attribute.Int("offset", offset),
		),
	)
	defer span.End()

	payments, total, err := r.GormPaymentRepository.FindByUser(userID, status, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("payment.count", len(payments)))
	return payments, total, nil
}
