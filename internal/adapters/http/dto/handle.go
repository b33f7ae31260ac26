package dto

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
)

// ContextKeyTraceID lets middleware or tests pin the trace ID for a request.
const ContextKeyTraceID = "trace_id"

const headerRequestID = "X-Request-ID"

// GetTraceID returns the ID that ties an error response to the logs: an
// explicit trace_id on the gin context, then the OpenTelemetry trace, then
// the request ID header.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyTraceID); ok {
		id, _ := v.(string)
		return id
	}

	if c.Request == nil {
		return ""
	}

	if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	return c.Request.Header.Get(headerRequestID)
}

// MapDomainError maps a domain error to a status code and envelope.
// Unknown errors become a 500 with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	switch {
	case err == nil:
		return http.StatusOK, nil

	case domain.IsValidation(err):
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			resp := NewErrorResponse(ErrorCodeValidation, ve.Error())
			if ve.Field != "" {
				resp.Error.Details = map[string]string{ve.Field: ve.Message}
			}

			return http.StatusBadRequest, resp
		}

		return http.StatusBadRequest, NewErrorResponse(ErrorCodeValidation, err.Error())

	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, err.Error())

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable,
			"a dependency is temporarily unavailable")

	default:
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
	}
}

// HandleError writes the envelope for err. Server-side failures are logged
// with the cause, since the response hides it.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "request failed",
			slog.Int("status", status),
			slog.Any("error", err),
			slog.String("trace_id", resp.TraceID),
		)
	}

	c.AbortWithStatusJSON(status, resp)
}

// RespondWithCode writes an envelope for an adapter-level error.
func RespondWithCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// HandleBindError writes a 400 for a request that failed binding or tag
// validation, with per-field details when available. Oversized bodies get 413.
func HandleBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		RespondWithCode(c, ErrorCodePayloadTooLarge, "request body too large")
		return
	}

	if fields := ValidationErrors(err); len(fields) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", fields).
				WithTraceID(GetTraceID(c)))

		return
	}

	RespondWithCode(c, ErrorCodeBadRequest, "malformed request body")
}
