// Package dto provides Data Transfer Objects for the ops HTTP surface.
package dto

import "net/http"

// ErrorResponse is the envelope every ops error is written in.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is one of the ErrorCode constants.
	Code string `json:"code"`

	Message string `json:"message"`

	// Details maps query parameters to what is wrong with them.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes. The ops surface only reads, so a refusal from the quote API
// is reported as UPSTREAM_REJECTED rather than passed through as the
// caller's own 403 or 409.
const (
	ErrorCodeNotFound         = "NOT_FOUND"
	ErrorCodeValidation       = "VALIDATION_ERROR"
	ErrorCodeBadRequest       = "BAD_REQUEST"
	ErrorCodeUnavailable      = "SERVICE_UNAVAILABLE"
	ErrorCodeUpstreamRejected = "UPSTREAM_REJECTED"
	ErrorCodeInternal         = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	ErrorCodeNotFound:         http.StatusNotFound,
	ErrorCodeValidation:       http.StatusBadRequest,
	ErrorCodeBadRequest:       http.StatusBadRequest,
	ErrorCodeUnavailable:      http.StatusServiceUnavailable,
	ErrorCodeUpstreamRejected: http.StatusBadGateway,
}

// NewErrorResponse builds an envelope. details may be nil.
func NewErrorResponse(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// Status is the HTTP status the envelope is written with.
// Unknown codes are written as 500.
func (e *ErrorResponse) Status() int {
	if status, ok := statusByCode[e.Error.Code]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// WithTraceID sets the trace id of the failed request.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}
