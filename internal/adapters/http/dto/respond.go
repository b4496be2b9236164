package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-scheduler/internal/domain"
	"github.com/jsamuelsen/quote-scheduler/internal/platform/logging"
)

// MapDomainError picks the envelope for a domain error. Refusals from the
// quote API become UPSTREAM_REJECTED. Unknown errors get a generic message.
func MapDomainError(err error) *ErrorResponse {
	switch {
	case domain.IsNotFound(err):
		return NewErrorResponse(ErrorCodeNotFound, err.Error(), nil)
	case domain.IsValidation(err):
		var details map[string]string

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			details = map[string]string{validationErr.Field: validationErr.Message}
		}

		return NewErrorResponse(ErrorCodeValidation, err.Error(), details)
	case domain.IsForbidden(err), domain.IsConflict(err):
		return NewErrorResponse(ErrorCodeUpstreamRejected, err.Error(), nil)
	case domain.IsUnavailable(err):
		return NewErrorResponse(ErrorCodeUnavailable, err.Error(), nil)
	default:
		return NewErrorResponse(ErrorCodeInternal, "an internal error occurred", nil)
	}
}

// GetTraceID returns the trace ID of the request span, or "".
func GetTraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

// HandleError writes the error envelope for err.
// Binding and validation failures become 400 with field details;
// everything else goes through MapDomainError.
func HandleError(c *gin.Context, err error) {
	var errResp *ErrorResponse

	switch {
	case errors.Is(err, ErrValidation):
		errResp = NewErrorResponse(ErrorCodeValidation, "request validation failed", ValidationErrors(err))
	case errors.Is(err, ErrBinding):
		errResp = NewErrorResponse(ErrorCodeBadRequest, err.Error(), nil)
	default:
		errResp = MapDomainError(err)
	}

	errResp.WithTraceID(GetTraceID(c))

	status := errResp.Status()
	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("internal error",
			"error", err.Error(),
			"trace_id", errResp.TraceID,
		)
	}

	c.JSON(status, errResp)
}
