package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Handlers are the endpoint groups the API serves
type Handlers struct {
	System   *handler.SystemHandler
	Auth     *handler.AuthHandler
	Drafts   *handler.DraftHandler
	Sales    *handler.SaleHandler
	Register *handler.RegisterHandler
	Stock    *handler.StockHandler
}

// Options wires the engine to the process-wide services
type Options struct {
	HTTP           config.HTTPConfig
	Production     bool
	Logger         *zap.Logger
	JWT            *auth.JWTService
	LoginLimiter   *middleware.RateLimiter
	TracerProvider trace.TracerProvider
	Meter          metric.Meter
	ServiceName    string
	Telemetry      bool
}

// New builds the gin engine with the full middleware chain and all routes
func New(opts Options, h Handlers) (*gin.Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	httpMetrics, err := middleware.HTTPMetricsWithMeter(opts.Meter, opts.Telemetry)
	if err != nil {
		return nil, err
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = opts.HTTP.CORSAllowOrigins
	if len(opts.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = opts.HTTP.CORSAllowMethods
	}
	if len(opts.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = opts.HTTP.CORSAllowHeaders
	}

	secure := middleware.DefaultSecurityConfig()
	secure.HSTSEnabled = opts.Production

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.SecureWithConfig(secure),
		middleware.CORSWithConfig(cors),
		middleware.BodyLimit(opts.HTTP.MaxBodySize),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName:    opts.ServiceName,
			Enabled:        opts.Telemetry,
			TracerProvider: opts.TracerProvider,
			SkipPaths:      []string{"/health", "/api/v1/health"},
		}),
		httpMetrics,
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", c.GetString(middleware.RequestIDKey)))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeBadRequest, "Method not allowed", c.GetString(middleware.RequestIDKey)))
	})
	engine.HandleMethodNotAllowed = true

	engine.GET("/health", h.System.Health)

	jwtCfg := middleware.DefaultJWTConfig(opts.JWT)
	jwtCfg.AllowOperatorHeader = opts.HTTP.AllowOperatorHeader
	jwtCfg.Logger = log
	authenticated := []gin.HandlerFunc{
		middleware.JWTAuthMiddlewareWithConfig(jwtCfg),
		middleware.TracingAttributeInjector(),
	}
	supervisor := middleware.RequireRoleWithConfig(middleware.RoleConfig{Logger: log}, string(identity.RoleSupervisor))

	loginLimiter := opts.LoginLimiter
	if loginLimiter == nil {
		loginLimiter = middleware.NewRateLimiter(opts.HTTP.LoginRatePerMinute, opts.HTTP.LoginRatePerMinute)
	}

	r := NewRouter(engine, WithAuthentication(authenticated...))

	r.Register(
		NewDomainGroup("").Public().
			GET("/health", h.System.Health),

		NewDomainGroup("/auth").Public().
			POST("/login", middleware.RateLimit(loginLimiter), h.Auth.Login),

		NewDomainGroup("/operators").
			POST("", supervisor, h.Auth.CreateOperator),

		NewDomainGroup("/drafts").
			POST("", h.Drafts.Create).
			GET("", h.Drafts.List).
			GET("/:id", h.Drafts.Get).
			DELETE("/:id", h.Drafts.Delete).
			GET("/:id/reload", h.Drafts.Reload).
			POST("/:id/send", h.Drafts.Send),

		NewDomainGroup("/fulfillment/orders").
			GET("", h.Drafts.Pending).
			POST("/:id/items/:sku/toggle", h.Drafts.Toggle).
			POST("/:id/advance", h.Drafts.Advance),

		NewDomainGroup("/sales").
			POST("", h.Sales.Register).
			GET("/:id", h.Sales.Get).
			PUT("/:id", h.Sales.Modify).
			POST("/:id/returns", h.Sales.Return),

		NewDomainGroup("/consignments").
			GET("", h.Sales.ListConsignments).
			GET("/:id", h.Sales.GetConsignment).
			POST("/:id/payments", h.Sales.AddConsignmentPayment),

		NewDomainGroup("/register").
			GET("/session", h.Register.Current).
			POST("/open", h.Register.Open).
			POST("/close", h.Register.Close).
			GET("/summary", h.Register.Summary),

		NewDomainGroup("/stock").
			GET("/:sku", h.Stock.Get).
			PUT("/:sku", supervisor, h.Stock.Set),
	)

	r.Setup()
	log.Debug("routes mounted", zap.Strings("routes", r.Routes()))
	return engine, nil
}
