package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID  int64 `gorm:"primaryKey"`
	SKU string
}

func openSQLite(t *testing.T, plugins ...gorm.Plugin) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	for _, p := range plugins {
		require.NoError(t, db.Use(p))
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestDBTracingPlugin(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	plugin := NewDBTracingPlugin(DBTracingConfig{TracerProvider: tp})
	assert.Equal(t, "pos:db_tracing", plugin.Name())

	db := openSQLite(t, plugin)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	sr.Reset()

	ctx, parent := tp.Tracer("test").Start(context.Background(), "checkout.register_sale")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{SKU: "A-1"}).Error)
	var rows []tracedRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	parent.End()

	var children int
	for _, s := range sr.Ended() {
		if s.Parent().SpanID() == parent.SpanContext().SpanID() {
			children++
		}
	}
	assert.Equal(t, 2, children, "one span per statement under the service span")
}

func TestNewDBTracingPlugin_DefaultThreshold(t *testing.T) {
	p := NewDBTracingPlugin(DBTracingConfig{})
	assert.Equal(t, int64(200), p.config.SlowQueryThreshold.Milliseconds())
}

func TestRegisterPoolMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	db := openSQLite(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(3)

	reg, err := RegisterPoolMetrics(provider.Meter("test"), sqlDB)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Unregister() })

	data := collect(t, reader)

	maxConns, ok := data["db.client.connection.max"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, maxConns.DataPoints, 1)
	assert.Equal(t, int64(3), maxConns.DataPoints[0].Value)

	conns, ok := data["db.client.connection.count"].(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Len(t, conns.DataPoints, 2)
}
