package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	// IncludeVariables puts bound query values into spans. Development only.
	IncludeVariables bool
	// SlowQueryThreshold marks slower statements with db.slow_query (default 200ms)
	SlowQueryThreshold time.Duration
	// TracerProvider defaults to the global provider
	TracerProvider trace.TracerProvider
}

// DBTracingPlugin is a gorm.Plugin that installs otelgorm and tags slow
// statements on the spans it creates.
type DBTracingPlugin struct {
	config DBTracingConfig
}

// NewDBTracingPlugin creates a new database tracing plugin
func NewDBTracingPlugin(cfg DBTracingConfig) *DBTracingPlugin {
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}
	return &DBTracingPlugin{config: cfg}
}

// Name implements gorm.Plugin
func (p *DBTracingPlugin) Name() string {
	return "pos:db_tracing"
}

// Initialize implements gorm.Plugin
func (p *DBTracingPlugin) Initialize(db *gorm.DB) error {
	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !p.config.IncludeVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if p.config.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(p.config.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	for _, err := range []error{
		cb.Create().Before("gorm:create").Register("pos_timing:before_create", p.before),
		cb.Query().Before("gorm:query").Register("pos_timing:before_query", p.before),
		cb.Update().Before("gorm:update").Register("pos_timing:before_update", p.before),
		cb.Delete().Before("gorm:delete").Register("pos_timing:before_delete", p.before),
		cb.Row().Before("gorm:row").Register("pos_timing:before_row", p.before),
		cb.Raw().Before("gorm:raw").Register("pos_timing:before_raw", p.before),
		cb.Create().After("gorm:create").Register("pos_timing:after_create", p.after),
		cb.Query().After("gorm:query").Register("pos_timing:after_query", p.after),
		cb.Update().After("gorm:update").Register("pos_timing:after_update", p.after),
		cb.Delete().After("gorm:delete").Register("pos_timing:after_delete", p.after),
		cb.Row().After("gorm:row").Register("pos_timing:after_row", p.after),
		cb.Raw().After("gorm:raw").Register("pos_timing:after_raw", p.after),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

type queryStartKey struct{}

func (p *DBTracingPlugin) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (p *DBTracingPlugin) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		RecordError(span, db.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed >= p.config.SlowQueryThreshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}

var _ gorm.Plugin = (*DBTracingPlugin)(nil)
