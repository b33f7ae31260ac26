package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
)

const (
	// HeaderRequestID carries the per-request ID.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID carries an ID that follows one user action across
	// services. The remote client forwards it on sync and publish calls.
	HeaderCorrelationID = "X-Correlation-ID"

	ContextKeyRequestID     = "request_id"
	ContextKeyCorrelationID = "correlation_id"

	maxInboundIDLen = 128
)

// enricher adds an ID to a request context.
type enricher func(ctx context.Context, id string) context.Context

// RequestID returns middleware that accepts or generates a request ID,
// echoes it in the response and attaches it to the context logger.
func RequestID() gin.HandlerFunc {
	return propagateID(HeaderRequestID, ContextKeyRequestID, ContextWithRequestID, logging.WithRequestID)
}

// CorrelationID works like RequestID for the correlation header.
func CorrelationID() gin.HandlerFunc {
	return propagateID(HeaderCorrelationID, ContextKeyCorrelationID, ContextWithCorrelationID, logging.WithCorrelationID)
}

// propagateID reuses an inbound header value when it is safe to echo and
// log, and mints a UUID otherwise.
func propagateID(header, key string, enrichers ...enricher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if !safeInboundID(id) {
			id = uuid.New().String()
		}

		c.Set(key, id)
		c.Header(header, id)

		c.Request = c.Request.WithContext(enrich(c.Request.Context(), id, enrichers...))

		c.Next()
	}
}

// safeInboundID accepts 1 to 128 characters from [A-Za-z0-9._:-].
func safeInboundID(id string) bool {
	if id == "" || len(id) > maxInboundIDLen {
		return false
	}

	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return false
		}
	}

	return true
}

func enrich(ctx context.Context, id string, enrichers ...enricher) context.Context {
	for _, e := range enrichers {
		ctx = e(ctx, id)
	}

	return ctx
}
