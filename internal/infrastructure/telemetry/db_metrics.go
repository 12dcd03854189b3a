package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var attrDBState = attribute.Key("db.client.connection.state")

// RegisterPoolMetrics reports the connection pool of sqlDB as observable
// gauges, read at every collection.
func RegisterPoolMetrics(meter metric.Meter, sqlDB *sql.DB) (metric.Registration, error) {
	connections, err := meter.Int64ObservableGauge("db.client.connection.count",
		metric.WithDescription("Open database connections by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection gauge: %w", err)
	}
	maxConnections, err := meter.Int64ObservableGauge("db.client.connection.max",
		metric.WithDescription("Maximum open database connections allowed"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create max connection gauge: %w", err)
	}
	waits, err := meter.Int64ObservableCounter("db.client.connection.wait_count",
		metric.WithDescription("Connections waited for since start"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create wait counter: %w", err)
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(connections, int64(stats.Idle), metric.WithAttributes(attrDBState.String("idle")))
		o.ObserveInt64(connections, int64(stats.InUse), metric.WithAttributes(attrDBState.String("used")))
		o.ObserveInt64(maxConnections, int64(stats.MaxOpenConnections))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, connections, maxConnections, waits)
}
