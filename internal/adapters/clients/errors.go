// Package clients provides the instrumented HTTP client used to reach the
// remote quote source.
package clients

import "errors"

// Transport-level failures. The acl package translates these into domain errors.
var (
	// ErrCircuitOpen is returned without a network call while the breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrAttemptsExhausted wraps the last failure once every configured attempt failed.
	ErrAttemptsExhausted = errors.New("request attempts exhausted")
)
