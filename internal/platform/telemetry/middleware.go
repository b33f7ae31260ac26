package telemetry

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/jsamuelsen/quote-generator/internal/platform/telemetry"

	// HeaderTraceID carries the server span's trace ID on every response.
	HeaderTraceID = "X-Trace-ID"

	// operationalPrefix marks probe and metrics routes, which are not traced.
	operationalPrefix = "/-/"

	// unmatchedRoute labels requests that hit no route, keeping label
	// cardinality bounded by the route table.
	unmatchedRoute = "unmatched"
)

// Metrics holds HTTP server metrics.
type Metrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// NewMetrics creates HTTP server metrics on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		activeRequests:  activeRequests,
	}, nil
}

// Middleware records request metrics and echoes the trace ID in the
// X-Trace-ID header. It runs after TracingMiddleware.
func Middleware(serviceName string) gin.HandlerFunc {
	metrics, err := NewMetrics()
	if err != nil {
		otel.Handle(err)
	}

	service := attribute.String("service.name", serviceName)

	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		if span := trace.SpanFromContext(ctx); span.SpanContext().HasTraceID() {
			c.Header(HeaderTraceID, span.SpanContext().TraceID().String())
		}

		if metrics == nil {
			c.Next()
			return
		}

		route := routeOf(c)
		inFlight := metric.WithAttributes(service, attribute.String("http.method", c.Request.Method), attribute.String("http.route", route))

		metrics.activeRequests.Add(ctx, 1, inFlight)
		defer metrics.activeRequests.Add(ctx, -1, inFlight)

		c.Next()

		done := metric.WithAttributes(
			service,
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", c.Writer.Status()),
		)
		metrics.requestDuration.Record(ctx, time.Since(start).Seconds(), done)
		metrics.requestTotal.Add(ctx, 1, done)
	}
}

// TracingMiddleware starts a server span per request. Probe and metrics
// endpoints are not traced.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			return !strings.HasPrefix(r.URL.Path, operationalPrefix)
		}),
	)
}

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}

	return unmatchedRoute
}
