package router

import (
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/config"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/logger"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineConfig is everything the engine needs besides the handlers
type EngineConfig struct {
	Logger         *zap.Logger
	TrustedProxies []string
	MaxBodySize    int64
	CORS           middleware.CORSConfig
	Security       middleware.SecurityConfig
	Tracing        middleware.TracingConfig
	// Meter is optional; nil disables HTTP metrics
	Meter          metric.Meter
	Profiling      middleware.ProfilingConfig
	Swagger        config.SwaggerConfig
	TokenValidator middleware.TokenValidator
	Resolver       middleware.PrincipalResolver
	// RateLimiter is optional; nil disables rate limiting
	RateLimiter *middleware.RateLimiter
}

// NewEngine builds the gin engine with the full middleware chain:
// request id, logging, recovery, CORS, security headers, body limit,
// tracing, metrics and profiling globally; JWT, restaurant context and
// rate limiting on the scoped API.
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(cfg.CORS),
		middleware.SecureWithConfig(cfg.Security),
	)
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	engine.Use(
		middleware.Tracing(cfg.Tracing),
		middleware.SpanStatus(),
		middleware.HTTPMetrics(cfg.Meter),
		middleware.Profiling(cfg.Profiling),
	)

	auth := middleware.JWTAuth(middleware.JWTConfig{Validator: cfg.TokenValidator, Logger: log})

	engine.GET("/health", h.System.Health)
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger, auth), ginSwagger.WrapHandler(swaggerFiles.Handler))

	scoped := []gin.HandlerFunc{
		auth,
		middleware.RestaurantContextWithConfig(middleware.RestaurantContextConfig{
			Resolver:    cfg.Resolver,
			BodyEnabled: true,
			Logger:      log,
		}),
		middleware.SpanScope(),
		middleware.Profiling(cfg.Profiling),
	}
	if cfg.RateLimiter != nil {
		scoped = append(scoped, middleware.RateLimit(cfg.RateLimiter))
	}

	NewRouter(engine).
		Public(SystemRoutes(h.System), MembershipRoutes(h.Restaurant, auth)).
		Register(LedgerRoutes(h)...).
		Setup(scoped...)

	return engine, nil
}
