package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/field-inventory/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// TracingUnitOfWork wraps a unit of work with one span per transaction
type TracingUnitOfWork struct {
	next    domain.UnitOfWork
	backend string
}

// NewTracingUnitOfWork creates a traced unit of work
func NewTracingUnitOfWork(next domain.UnitOfWork, backend string) *TracingUnitOfWork {
	return &TracingUnitOfWork{next: next, backend: backend}
}

var _ domain.UnitOfWork = (*TracingUnitOfWork)(nil)

// Do with tracing
func (u *TracingUnitOfWork) Do(ctx context.Context, fn func(tx domain.Tx) error) error {
	ctx, span := tracer.Start(ctx, "repository.Transaction",
		trace.WithAttributes(
			attribute.String("db.backend", u.backend),
		),
	)
	defer span.End()

	err := u.next.Do(ctx, fn)
	if err != nil {
		addErrorToSpan(span, err)
		return err
	}
	return nil
}

// addErrorToSpan records err unless it is an expected business outcome
func addErrorToSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetAttributes(attribute.Bool("db.retryable", domain.IsRetryable(err)))
	if errors.Is(err, domain.ErrContention) || !isBusinessError(err) {
		span.SetStatus(codes.Error, err.Error())
	}
}

func isBusinessError(err error) bool {
	return errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrInvalidOperation) ||
		errors.Is(err, domain.ErrUnauthorized) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrValidation)
}
