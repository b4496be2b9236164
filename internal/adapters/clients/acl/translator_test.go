package acl

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-scheduler/internal/adapters/clients"
	"github.com/jsamuelsen/quote-scheduler/internal/domain"
)

// --- Error Mapping Tests ---

func TestMapHTTPError_NotFound(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader(`{}`)),
	}

	err := MapHTTPError(resp, nil, QuoteServiceName, "update quote", 42)

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err), "expected NotFoundError")

	var notFoundErr *domain.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, int64(42), notFoundErr.ID)
	assert.Equal(t, "quote", notFoundErr.Entity)
}

func TestMapHTTPError_Conflict(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusConflict,
		Body:       io.NopCloser(strings.NewReader(`{"message":"id already taken"}`)),
	}

	err := MapHTTPError(resp, nil, QuoteServiceName, "create quote", 0)

	require.Error(t, err)
	assert.True(t, domain.IsConflict(err), "expected ConflictError")
	assert.Contains(t, err.Error(), "id already taken")
}

func TestMapHTTPError_ValidationWithDetails(t *testing.T) {
	body := `{
		"error": {
			"code": "VALIDATION_ERROR",
			"message": "validation failed",
			"details": {
				"text": "is required"
			}
		}
	}`
	resp := &http.Response{
		StatusCode: http.StatusBadRequest,
		Body:       io.NopCloser(strings.NewReader(body)),
	}

	err := MapHTTPError(resp, nil, QuoteServiceName, "create quote", 0)

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err), "expected ValidationError")

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "text", validationErr.Field)
}

func TestMapHTTPError_StatusTable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		is     func(error) bool
		msg    string
	}{
		{"forbidden", http.StatusForbidden, `{"error":{"message":"read only"}}`, domain.IsForbidden, "read only"},
		{"unauthorized", http.StatusUnauthorized, `{}`, domain.IsForbidden, "authentication required"},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"internal error"}}`, domain.IsUnavailable, "internal error"},
		{"bad gateway without body", http.StatusBadGateway, ``, domain.IsUnavailable, "status 502"},
		{"rate limited", http.StatusTooManyRequests, `{}`, domain.IsUnavailable, "rate limit"},
		{"unknown 4xx", http.StatusTeapot, `{}`, domain.IsValidation, "status 418"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{
				StatusCode: tt.status,
				Body:       io.NopCloser(strings.NewReader(tt.body)),
			}

			err := MapHTTPError(resp, nil, QuoteServiceName, "delete quote", 7)

			require.Error(t, err)
			assert.True(t, tt.is(err), "unexpected error type %T", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestMapHTTPError_ExternalCodeWins(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusBadRequest,
		Body:       io.NopCloser(strings.NewReader(`{"code":"NOT_FOUND","message":"gone"}`)),
	}

	err := MapHTTPError(resp, nil, QuoteServiceName, "update quote", 9)

	assert.True(t, domain.IsNotFound(err))
}

func TestMapHTTPError_CircuitOpen(t *testing.T) {
	err := MapHTTPError(nil, clients.ErrCircuitOpen, QuoteServiceName, "list quotes", 0)

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	assert.Contains(t, err.Error(), "circuit breaker open")
}

func TestMapHTTPError_RequestFailed(t *testing.T) {
	clientErr := fmt.Errorf("%w: %w", clients.ErrRequestFailed, errors.New("connection refused"))

	err := MapHTTPError(nil, clientErr, QuoteServiceName, "list quotes", 0)

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestMapHTTPError_SuccessReturnsNil(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{}`)),
	}

	assert.NoError(t, MapHTTPError(resp, nil, QuoteServiceName, "list quotes", 0))
}

func TestMapHTTPError_NilResponse(t *testing.T) {
	err := MapHTTPError(nil, nil, QuoteServiceName, "list quotes", 0)

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	assert.Contains(t, err.Error(), "no response received")
}

// --- MapExternalCode Tests ---

func TestMapExternalCode(t *testing.T) {
	tests := []struct {
		code     string
		expected func(error) bool
	}{
		{ExternalCodeNotFound, domain.IsNotFound},
		{ExternalCodeConflict, domain.IsConflict},
		{ExternalCodeValidation, domain.IsValidation},
		{ExternalCodeForbidden, domain.IsForbidden},
		{ExternalCodeUnauthorized, domain.IsForbidden},
		{"UNKNOWN_CODE", domain.IsUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := MapExternalCode(tt.code, "test message", QuoteServiceName, "test op", 123)
			require.Error(t, err)
			assert.True(t, tt.expected(err), "unexpected error type for code %s", tt.code)
		})
	}
}

func TestParseErrorResponse(t *testing.T) {
	assert.Nil(t, ParseErrorResponse(nil))
	assert.Nil(t, ParseErrorResponse(strings.NewReader(`{}`)), "json-server empty body carries no detail")
	assert.Nil(t, ParseErrorResponse(strings.NewReader(`not json`)))

	flat := ParseErrorResponse(strings.NewReader(`{"code":"CONFLICT","message":"taken"}`))
	require.NotNil(t, flat)
	assert.Equal(t, "CONFLICT", flat.GetCode())
	assert.Equal(t, "taken", flat.GetMessage())
}

// --- Translation Tests ---

func TestDecodeResponse_Success(t *testing.T) {
	body := io.NopCloser(strings.NewReader(`{"id":"123","name":"test"}`))

	type testStruct struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	result, err := DecodeResponse[testStruct](body)

	require.NoError(t, err)
	assert.Equal(t, "123", result.ID)
	assert.Equal(t, "test", result.Name)
}

func TestDecodeResponse_EmptyBodyIsZeroValue(t *testing.T) {
	type testStruct struct{ ID int }

	result, err := DecodeResponse[testStruct](io.NopCloser(strings.NewReader("")))

	require.NoError(t, err)
	assert.Zero(t, result.ID)
}

func TestDecodeResponse_InvalidJSON(t *testing.T) {
	type testStruct struct{}

	_, err := DecodeResponse[testStruct](io.NopCloser(strings.NewReader(`invalid json`)))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestDecodeResponse_NilBody(t *testing.T) {
	type testStruct struct{}

	_, err := DecodeResponse[testStruct](nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil")
}

func TestTranslateSlice_Success(t *testing.T) {
	type External struct{ Value int }
	type Domain struct{ DoubledValue int }

	items := []External{{Value: 1}, {Value: 2}, {Value: 3}}

	translator := func(ext *External) (Domain, error) {
		return Domain{DoubledValue: ext.Value * 2}, nil
	}

	result, err := TranslateSlice(items, translator)

	require.NoError(t, err)
	assert.Equal(t, []Domain{{2}, {4}, {6}}, result)
}

func TestTranslateSlice_Error(t *testing.T) {
	type External struct{ Value int }
	type Domain struct{ Value int }

	items := []External{{Value: 1}, {Value: -1}, {Value: 3}}

	translator := func(ext *External) (Domain, error) {
		if ext.Value < 0 {
			return Domain{}, domain.NewValidationError("value", "must be positive")
		}

		return Domain(*ext), nil
	}

	_, err := TranslateSlice(items, translator)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "translating item 1")
	assert.True(t, domain.IsValidation(err))
}

func TestTranslateSlice_EmptySlice(t *testing.T) {
	type External struct{}
	type Domain struct{}

	result, err := TranslateSlice([]External{}, func(*External) (Domain, error) { return Domain{}, nil })

	require.NoError(t, err)
	assert.Empty(t, result)
}
