package telemetry

import (
	"context"
	"fmt"

	"github.com/pos/backend/internal/domain/fulfillment"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/pos/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName names the meter for store activity metrics
const MeterName = "pos-backend/store"

// StoreMetrics turns domain events into counters: sales, layaway payments,
// returns, fulfillment phases and register sessions. It subscribes to the
// event bus, so nothing is recorded for work that was rolled back.
type StoreMetrics struct {
	sales           metric.Int64Counter
	salesAmount     metric.Float64Counter
	layawayPayments metric.Float64Counter
	layawaySettled  metric.Int64Counter
	returns         metric.Int64Counter
	refunded        metric.Float64Counter
	phases          metric.Int64Counter
	sessions        metric.Int64Counter
}

// NewStoreMetrics creates the instruments on meter
func NewStoreMetrics(meter metric.Meter) (*StoreMetrics, error) {
	m := &StoreMetrics{}
	var err error

	if m.sales, err = meter.Int64Counter("pos.sales",
		metric.WithDescription("Sales registered, by status"),
		metric.WithUnit("{sale}")); err != nil {
		return nil, fmt.Errorf("pos.sales: %w", err)
	}
	if m.salesAmount, err = meter.Float64Counter("pos.sales.amount",
		metric.WithDescription("Total value of registered sales, by status")); err != nil {
		return nil, fmt.Errorf("pos.sales.amount: %w", err)
	}
	if m.layawayPayments, err = meter.Float64Counter("pos.layaway.payments.amount",
		metric.WithDescription("Money received against layaway balances, by method")); err != nil {
		return nil, fmt.Errorf("pos.layaway.payments.amount: %w", err)
	}
	if m.layawaySettled, err = meter.Int64Counter("pos.layaway.settled",
		metric.WithDescription("Layaway sales paid in full"),
		metric.WithUnit("{sale}")); err != nil {
		return nil, fmt.Errorf("pos.layaway.settled: %w", err)
	}
	if m.returns, err = meter.Int64Counter("pos.returns",
		metric.WithDescription("Returns registered, by kind"),
		metric.WithUnit("{return}")); err != nil {
		return nil, fmt.Errorf("pos.returns: %w", err)
	}
	if m.refunded, err = meter.Float64Counter("pos.returns.refunded",
		metric.WithDescription("Money paid back on returns")); err != nil {
		return nil, fmt.Errorf("pos.returns.refunded: %w", err)
	}
	if m.phases, err = meter.Int64Counter("pos.fulfillment.phase_changes",
		metric.WithDescription("Orders entering a fulfillment phase, by phase"),
		metric.WithUnit("{order}")); err != nil {
		return nil, fmt.Errorf("pos.fulfillment.phase_changes: %w", err)
	}
	if m.sessions, err = meter.Int64Counter("pos.register.sessions",
		metric.WithDescription("Register sessions opened and closed"),
		metric.WithUnit("{session}")); err != nil {
		return nil, fmt.Errorf("pos.register.sessions: %w", err)
	}
	return m, nil
}

// Handle records the event
func (m *StoreMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *sale.SaleRegisteredEvent:
		status := metric.WithAttributes(attribute.String(AttrStatus, string(e.Status)))
		m.sales.Add(ctx, 1, status)
		m.salesAmount.Add(ctx, e.Total.InexactFloat64(), status)
	case *sale.ConsignmentPaymentRecordedEvent:
		m.layawayPayments.Add(ctx, e.Amount.InexactFloat64(),
			metric.WithAttributes(attribute.String(AttrMethod, string(e.Method))))
	case *sale.ConsignmentSettledEvent:
		m.layawaySettled.Add(ctx, 1)
	case *sale.SaleReturnedEvent:
		m.returns.Add(ctx, 1, metric.WithAttributes(attribute.Bool("pos.return.full", e.Full)))
		m.refunded.Add(ctx, e.Refunded.InexactFloat64())
	case *fulfillment.PhaseChangedEvent:
		m.phases.Add(ctx, 1, metric.WithAttributes(attribute.String("pos.phase", string(e.To))))
	case *register.SessionOpenedEvent:
		m.sessions.Add(ctx, 1, metric.WithAttributes(attribute.String("pos.session.action", "open")))
	case *register.SessionClosedEvent:
		m.sessions.Add(ctx, 1, metric.WithAttributes(attribute.String("pos.session.action", "close")))
	}
	return nil
}

// EventTypes lists the events StoreMetrics counts
func (m *StoreMetrics) EventTypes() []string {
	return []string{
		sale.EventTypeSaleRegistered,
		sale.EventTypeConsignmentPaymentRecorded,
		sale.EventTypeConsignmentSettled,
		sale.EventTypeSaleReturned,
		fulfillment.EventTypeOrderPhaseChanged,
		register.EventTypeSessionOpened,
		register.EventTypeSessionClosed,
	}
}

var _ shared.EventHandler = (*StoreMetrics)(nil)
