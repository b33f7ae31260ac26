package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-generator/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-generator/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 10 * time.Second

// RouterConfig contains the handlers and settings the router wires.
type RouterConfig struct {
	// ServiceName names the server spans.
	ServiceName string

	// Timeout bounds /api/v1 requests other than manual sync.
	Timeout time.Duration

	Session middleware.SessionConfig

	HealthHandler *handlers.HealthHandler
	QuoteHandler  *handlers.QuoteHandler
	PageHandler   *handlers.PageHandler
}

// SetupRouter configures middleware and routes on the engine.
// Global middleware, first to last: recovery, request ID, correlation ID,
// tracing, HTTP metrics, logging. The page and the API also get the
// session cookie, and the API gets a deadline.
//
// Route groups:
//   - /-/      operational endpoints
//   - /        the HTML page and its form targets
//   - /api/v1/ the JSON API
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(cfg.ServiceName),
		middleware.Logging("/favicon.ico"),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	session := middleware.Session(cfg.Session)

	if cfg.PageHandler != nil {
		cfg.PageHandler.RegisterPageRoutes(engine, session)
	}

	if cfg.QuoteHandler != nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultRequestTimeout
		}

		apiV1 := engine.Group("/api/v1", session, middleware.Timeout(timeout, "/api/v1/sync"))
		cfg.QuoteHandler.RegisterQuoteRoutes(apiV1)
	}
}
