// Package clients provides the instrumented HTTP transport used to reach the quote API.
package clients

import "errors"

// Client errors represent failures in the HTTP client layer.
// The ACL translates them into domain.UnavailableError.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open and the
	// request was not sent.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrRequestFailed is returned when no response was received.
	// The transport error is wrapped for context.
	ErrRequestFailed = errors.New("request failed")
)
