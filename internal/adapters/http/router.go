package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-scheduler/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-scheduler/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-scheduler/internal/platform/telemetry"
)

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the base request logger.
	Logger *slog.Logger

	// ServiceName names the otelgin spans.
	ServiceName string

	// HealthHandler serves /-/live, /-/ready, /-/build and /-/metrics.
	HealthHandler *handlers.HealthHandler

	// QuoteHandler serves /-/quotes/today and /-/resolutions. Optional.
	QuoteHandler *handlers.QuoteHandler
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Context logger - base logger for the request
//  2. Recovery - catch panics
//  3. Request ID and correlation ID
//  4. OpenTelemetry - tracing
//  5. Logging - request log (probes and scrapes skipped)
//
// Every route lives under /-/; the ops server exposes no business API.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.ContextLogger(cfg.Logger),
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging())

	ops := engine.Group("/-")

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(ops)
	}

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterRoutes(ops)
	}
}
