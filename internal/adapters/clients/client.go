package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-generator/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-generator/internal/platform/config"
	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/quote-generator/internal/adapters/clients"

	defaultTimeout = 10 * time.Second

	// jitterFraction spreads each backoff by up to ±25%.
	jitterFraction = 0.25
)

// Config configures an HTTP client instance.
type Config struct {
	// BaseURL is prefixed to every request path.
	BaseURL string

	// ServiceName identifies the downstream in logs, spans and metrics.
	ServiceName string

	// Timeout bounds each attempt. Retries and backoff come on top.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// UserAgent is sent on every request when set.
	UserAgent string

	Logger *slog.Logger
}

// Client is an instrumented HTTP client: retry with exponential backoff and
// jitter, a circuit breaker, OpenTelemetry spans and metrics, and
// request/correlation ID propagation.
type Client struct {
	http    *http.Client
	cfg     Config
	baseURL string
	logger  *slog.Logger
	cb      *CircuitBreaker
	tracer  trace.Tracer

	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
}

// New creates a client. A zero retry config means a single attempt.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	c := *cfg
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}

	c.Retry.MaxAttempts = max(c.Retry.MaxAttempts, 1)

	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "clients"), slog.String("downstream", c.ServiceName))

	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   c.Circuit.MaxFailures,
		Timeout:       c.Circuit.Timeout,
		HalfOpenLimit: c.Circuit.HalfOpenLimit,
	})
	cb.OnStateChange(func(from, to State) {
		logger.Warn("circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of HTTP client requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requestTotal, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Total number of HTTP client requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if c.Transport.MaxIdleConns > 0 {
		transport.MaxIdleConns = c.Transport.MaxIdleConns
	}

	if c.Transport.MaxIdleConnsPerHost > 0 {
		transport.MaxIdleConnsPerHost = c.Transport.MaxIdleConnsPerHost
	}

	if c.Transport.IdleConnTimeout > 0 {
		transport.IdleConnTimeout = c.Transport.IdleConnTimeout
	}

	return &Client{
		http:            &http.Client{Timeout: c.Timeout, Transport: transport},
		cfg:             c,
		baseURL:         strings.TrimSuffix(c.BaseURL, "/"),
		logger:          logger,
		cb:              cb,
		tracer:          otel.Tracer(instrumentationName),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}, nil
}

// ServiceName returns the configured downstream name.
func (c *Client) ServiceName() string {
	return c.cfg.ServiceName
}

// CircuitState returns the current state of the circuit breaker.
func (c *Client) CircuitState() State {
	return c.cb.State()
}

// Get performs an HTTP GET request.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(path), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	return c.Do(ctx, req)
}

// PostJSON encodes body as JSON and POSTs it. The body is buffered so
// retries can resend it.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(path), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.Do(ctx, req)
}

// Do executes req with the circuit breaker, retries, tracing and logging.
// Responses with status < 500 are returned to the caller as-is; 5xx and
// network errors are retried up to Retry.MaxAttempts.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContext(ctx).With(
		slog.String("downstream", c.cfg.ServiceName),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	if !c.cb.Allow() {
		c.recordMetrics(ctx, req.Method, 0, time.Since(start), "circuit_open")
		logger.WarnContext(ctx, "request blocked by circuit breaker")

		return nil, ErrCircuitOpen
	}

	c.injectHeaders(ctx, req)

	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("HTTP %s %s", req.Method, c.cfg.ServiceName),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.cfg.ServiceName),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	var (
		resp    *http.Response
		lastErr error
	)

	for attempt := range c.cfg.Retry.MaxAttempts {
		if attempt > 0 {
			if err := c.backoff(ctx, req, attempt, logger); err != nil {
				lastErr = err
				break
			}
		}

		var retry bool

		resp, retry, lastErr = c.attempt(ctx, req)
		if !retry {
			break
		}

		logger.DebugContext(ctx, "attempt failed",
			slog.Int("attempt", attempt+1),
			slog.Any("error", lastErr),
		)
	}

	duration := time.Since(start)

	if lastErr != nil {
		c.cb.RecordFailure()
		span.SetStatus(codes.Error, lastErr.Error())
		c.recordMetrics(ctx, req.Method, 0, duration, "error")
		logger.WarnContext(ctx, "request failed", slog.Duration("duration", duration), slog.Any("error", lastErr))

		return nil, fmt.Errorf("%w: %w", ErrAttemptsExhausted, lastErr)
	}

	c.cb.RecordSuccess()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	c.recordMetrics(ctx, req.Method, resp.StatusCode, duration, fmt.Sprintf("%dxx", resp.StatusCode/100))
	logger.DebugContext(ctx, "request completed", slog.Int("status", resp.StatusCode), slog.Duration("duration", duration))

	return resp, nil
}

// attempt performs one round trip and reports whether it is worth retrying.
func (c *Client) attempt(ctx context.Context, req *http.Request) (*http.Response, bool, error) {
	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		return nil, isRetryableError(err), err
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		_ = resp.Body.Close()
		return nil, true, fmt.Errorf("server error: %d", resp.StatusCode)
	}

	return resp, false, nil
}

// backoff sleeps before the next attempt and rewinds the request body.
func (c *Client) backoff(ctx context.Context, req *http.Request, attempt int, logger *slog.Logger) error {
	wait := c.calculateBackoff(attempt)
	logger.Log(ctx, logging.LevelTrace, "backing off", slog.Int("attempt", attempt+1), slog.Duration("backoff", wait))

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return fmt.Errorf("rewinding request body: %w", err)
		}

		req.Body = body
	}

	return nil
}

// calculateBackoff returns initial * multiplier^attempt capped at MaxInterval, with jitter.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	multiplier := c.cfg.Retry.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	wait := float64(c.cfg.Retry.InitialInterval) * math.Pow(multiplier, float64(attempt))
	if ceiling := float64(c.cfg.Retry.MaxInterval); ceiling > 0 && wait > ceiling {
		wait = ceiling
	}

	jitter := (rand.Float64()*2 - 1) * jitterFraction * wait //nolint:gosec // jitter does not need crypto randomness

	return time.Duration(wait + jitter)
}

func (c *Client) injectHeaders(ctx context.Context, req *http.Request) {
	if requestID := middleware.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(middleware.HeaderRequestID, requestID)
	}

	if correlationID := middleware.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(middleware.HeaderCorrelationID, correlationID)
	}

	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	req.Header.Set("Accept", "application/json")
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

func (c *Client) recordMetrics(ctx context.Context, method string, statusCode int, duration time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.cfg.ServiceName),
		attribute.String("result", result),
	}

	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	c.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	c.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// isRetryableError reports whether a transport error may succeed on retry.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
