package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen/quote-generator/internal/adapters/clients"
	"github.com/jsamuelsen/quote-generator/internal/domain"
)

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 512

// remoteErrorMessage extracts a short message from a failed response body.
// JSON bodies with a "message" field, or an "error" that is a string or an
// object with a message, yield that text. Other non-empty bodies are
// returned trimmed. It returns "" when nothing usable is found.
func remoteErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return ""
	}

	var envelope struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}

	if json.Unmarshal(raw, &envelope) != nil {
		text := strings.TrimSpace(string(raw))
		if text == "" || strings.HasPrefix(text, "<") {
			return ""
		}

		return text
	}

	if envelope.Message != "" {
		return envelope.Message
	}

	var asString string
	if json.Unmarshal(envelope.Error, &asString) == nil {
		return asString
	}

	var nested struct {
		Message string `json:"message"`
	}

	if json.Unmarshal(envelope.Error, &nested) == nil {
		return nested.Message
	}

	return ""
}

// MapHTTPError maps a client error or a non-2xx response to a domain error.
// resp may be nil when clientErr is set. A 2xx response maps to nil.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(serviceName, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	return mapStatusCode(resp.StatusCode, remoteErrorMessage(resp.Body), serviceName, operation)
}

func mapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("circuit breaker open during %s", operation))

	default:
		return domain.WrapUnavailable(serviceName, operation+" failed", err)
	}
}

func mapStatusCode(status int, remoteMessage, serviceName, operation string) error {
	message := fmt.Sprintf("%s failed with status %d", operation, status)
	if remoteMessage != "" {
		message = remoteMessage
	}

	switch {
	case status == http.StatusNotFound:
		return domain.NewNotFoundError(serviceName, "")

	case status == http.StatusConflict:
		return domain.NewConflictError(serviceName, message)

	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return domain.NewUnavailableError(serviceName, "access denied")

	case status == http.StatusTooManyRequests:
		return domain.NewUnavailableError(serviceName, "rate limit exceeded")

	case status >= http.StatusInternalServerError:
		return domain.NewUnavailableError(serviceName, message)

	default:
		return domain.NewValidationError("", message)
	}
}
