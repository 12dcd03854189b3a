package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	checkoutapp "github.com/pos/backend/internal/application/checkout"
	fulfillmentapp "github.com/pos/backend/internal/application/fulfillment"
	identityapp "github.com/pos/backend/internal/application/identity"
	registerapp "github.com/pos/backend/internal/application/register"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/cache"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/event"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"github.com/pos/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	providers, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log := providers.Logs.Bridge(baseLog, zapcore.InfoLevel)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting POS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Bool("telemetry", cfg.Telemetry.Enabled),
	)

	dbOpts := []persistence.Option{persistence.WithLogLevel(cfg.Log.Level)}
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbOpts = append(dbOpts, persistence.WithPlugin(telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			IncludeVariables: cfg.App.Env == "development",
			TracerProvider:   providers.Tracer.Provider(),
		})))
	}
	db, err := persistence.NewDatabase(&cfg.Database, log, dbOpts...)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	meter := providers.Meter.Meter("pos-backend")
	if sqlDB, err := db.DB.DB(); err == nil {
		if _, err := telemetry.RegisterPoolMetrics(meter, sqlDB); err != nil {
			log.Warn("Failed to register connection pool metrics", zap.Error(err))
		}
	}

	// Event bus: audit log, business metrics and optionally Kafka
	bus := event.NewInMemoryEventBus(log)
	audit := event.NewAuditLogHandler(log)
	bus.Subscribe(audit, audit.EventTypes()...)
	storeMetrics, err := telemetry.NewStoreMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create store metrics", zap.Error(err))
	}
	bus.Subscribe(storeMetrics, storeMetrics.EventTypes()...)
	var kafka *event.KafkaPublisher
	if cfg.Kafka.Enabled {
		kafka = event.NewKafkaPublisher(cfg.Kafka, log)
		bus.Subscribe(kafka, kafka.EventTypes()...)
		log.Info("Publishing domain events to Kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	sessionRepo := persistence.NewGormSessionRepository(db.DB)
	operatorRepo := persistence.NewGormOperatorRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)

	// Services
	jwtService := auth.NewJWTService(jwtConfig(cfg, log))
	identityService := identityapp.NewService(operatorRepo, jwtService, log)

	fulfillmentService := fulfillmentapp.NewService(orderRepo, log)
	fulfillmentService.SetEventPublisher(bus)

	registerService := registerapp.NewService(sessionRepo, log)
	registerService.SetEventPublisher(bus)

	checkoutService := checkoutapp.NewService(saleRepo, registerService, identityService, log)
	checkoutService.SetEventPublisher(bus)
	if cfg.Idempotency.Enabled {
		store, err := cache.NewIdempotencyStore(cfg, log)
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		checkoutService.SetIdempotencyStore(store, cfg.Idempotency.TTL)
		if closer, ok := store.(io.Closer); ok {
			defer func() { _ = closer.Close() }()
		}
	}

	loginLimiter := middleware.NewRateLimiter(cfg.HTTP.LoginRatePerMinute, cfg.HTTP.LoginRatePerMinute)
	stopPruner := make(chan struct{})
	go loginLimiter.RunPruner(time.Minute, stopPruner)

	engine, err := router.New(router.Options{
		HTTP:           cfg.HTTP,
		Production:     cfg.App.Env == "production",
		Logger:         log,
		JWT:            jwtService,
		LoginLimiter:   loginLimiter,
		TracerProvider: providers.Tracer.Provider(),
		Meter:          meter,
		ServiceName:    cfg.Telemetry.ServiceName,
		Telemetry:      cfg.Telemetry.Enabled,
	}, router.Handlers{
		System: handler.NewSystemHandler(telemetry.ServiceVersion, map[string]handler.HealthCheck{
			"database": func(ctx context.Context) error {
				sqlDB, err := db.DB.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		}),
		Auth:     handler.NewAuthHandler(identityService, log),
		Drafts:   handler.NewDraftHandler(fulfillmentService),
		Sales:    handler.NewSaleHandler(checkoutService),
		Register: handler.NewRegisterHandler(registerService),
		Stock:    handler.NewStockHandler(stockRepo),
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	close(stopPruner)
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if kafka != nil {
		if err := kafka.Close(); err != nil {
			log.Error("Error closing Kafka writer", zap.Error(err))
		}
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		baseLog.Error("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// jwtConfig returns the JWT settings. Outside production a missing secret is
// replaced by a random one, so tokens do not survive a restart.
func jwtConfig(cfg *config.Config, log *zap.Logger) config.JWTConfig {
	jwtCfg := cfg.JWT
	if jwtCfg.Secret != "" {
		return jwtCfg
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatal("Failed to generate JWT secret", zap.Error(err))
	}
	jwtCfg.Secret = hex.EncodeToString(buf)
	log.Warn("jwt.secret is not set; using a random secret for this process")
	return jwtCfg
}
