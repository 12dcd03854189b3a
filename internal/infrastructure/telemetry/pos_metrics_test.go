package telemetry

import (
	"context"
	"testing"

	"github.com/pos/backend/internal/domain/fulfillment"
	"github.com/pos/backend/internal/domain/payment"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumFor[N int64 | float64](t *testing.T, data metricdata.Aggregation, key attribute.Key, value string) N {
	t.Helper()
	sum, ok := data.(metricdata.Sum[N])
	require.True(t, ok, "unexpected aggregation %T", data)
	var total N
	for _, dp := range sum.DataPoints {
		if key == "" {
			total += dp.Value
			continue
		}
		if v, found := dp.Attributes.Value(key); found && v.Emit() == value {
			total += dp.Value
		}
	}
	return total
}

func TestStoreMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewStoreMetrics(provider.Meter(MeterName))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, m.Handle(ctx, &sale.SaleRegisteredEvent{Status: sale.StatusDelivered, Total: decimal.NewFromInt(1500)}))
	require.NoError(t, m.Handle(ctx, &sale.SaleRegisteredEvent{Status: sale.StatusDelivered, Total: decimal.NewFromInt(500)}))
	require.NoError(t, m.Handle(ctx, &sale.SaleRegisteredEvent{Status: sale.StatusConsignment, Total: decimal.NewFromInt(3000)}))
	require.NoError(t, m.Handle(ctx, &sale.ConsignmentPaymentRecordedEvent{Method: payment.MethodCash, Amount: decimal.NewFromInt(1000)}))
	require.NoError(t, m.Handle(ctx, &sale.ConsignmentPaymentRecordedEvent{Method: payment.MethodCard, Amount: decimal.NewFromInt(2000)}))
	require.NoError(t, m.Handle(ctx, &sale.ConsignmentSettledEvent{Total: decimal.NewFromInt(3000)}))
	require.NoError(t, m.Handle(ctx, &sale.SaleReturnedEvent{Full: true, Refunded: decimal.NewFromInt(500)}))
	require.NoError(t, m.Handle(ctx, &fulfillment.PhaseChangedEvent{From: fulfillment.PhaseRevision, To: fulfillment.PhaseSeen}))
	require.NoError(t, m.Handle(ctx, &fulfillment.PhaseChangedEvent{From: fulfillment.PhaseSeen, To: fulfillment.PhasePacking}))
	require.NoError(t, m.Handle(ctx, &register.SessionOpenedEvent{}))
	require.NoError(t, m.Handle(ctx, &register.SessionClosedEvent{}))

	data := collect(t, reader)

	assert.Equal(t, int64(2), sumFor[int64](t, data["pos.sales"], AttrStatus, string(sale.StatusDelivered)))
	assert.Equal(t, int64(1), sumFor[int64](t, data["pos.sales"], AttrStatus, string(sale.StatusConsignment)))
	assert.InDelta(t, 2000.0, sumFor[float64](t, data["pos.sales.amount"], AttrStatus, string(sale.StatusDelivered)), 0.001)
	assert.InDelta(t, 1000.0, sumFor[float64](t, data["pos.layaway.payments.amount"], AttrMethod, string(payment.MethodCash)), 0.001)
	assert.InDelta(t, 2000.0, sumFor[float64](t, data["pos.layaway.payments.amount"], AttrMethod, string(payment.MethodCard)), 0.001)
	assert.Equal(t, int64(1), sumFor[int64](t, data["pos.layaway.settled"], "", ""))
	assert.Equal(t, int64(1), sumFor[int64](t, data["pos.returns"], "pos.return.full", "true"))
	assert.InDelta(t, 500.0, sumFor[float64](t, data["pos.returns.refunded"], "", ""), 0.001)
	assert.Equal(t, int64(1), sumFor[int64](t, data["pos.fulfillment.phase_changes"], "pos.phase", string(fulfillment.PhasePacking)))
	assert.Equal(t, int64(1), sumFor[int64](t, data["pos.register.sessions"], "pos.session.action", "open"))
	assert.Equal(t, int64(1), sumFor[int64](t, data["pos.register.sessions"], "pos.session.action", "close"))
}

func TestStoreMetrics_EventTypes(t *testing.T) {
	m, err := NewStoreMetrics(sdkmetric.NewMeterProvider().Meter(MeterName))
	require.NoError(t, err)

	types := m.EventTypes()
	assert.Contains(t, types, sale.EventTypeSaleRegistered)
	assert.Contains(t, types, register.EventTypeSessionClosed)
	assert.NotContains(t, types, fulfillment.EventTypeOrderItemToggled)
}
