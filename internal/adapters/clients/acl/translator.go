package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quote-scheduler/internal/adapters/clients"
)

// BaseAdapter provides common functionality for ACL adapters.
// Embed this in service-specific adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a new base adapter with the given client and service name.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
	}
}

// Client returns the underlying HTTP client.
func (a *BaseAdapter) Client() *clients.Client {
	return a.client
}

// ServiceName returns the name of the external service.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Get performs a GET request and returns the response body (caller must close).
// The path should be an absolute path starting with "/".
func (a *BaseAdapter) Get(ctx context.Context, path, operation string, quoteID int64) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path)
	return a.handle(resp, err, operation, quoteID)
}

// Post performs a POST request and returns the response body.
func (a *BaseAdapter) Post(ctx context.Context, path string, body io.Reader, operation string, quoteID int64) (io.ReadCloser, error) {
	resp, err := a.client.Post(ctx, path, body)
	return a.handle(resp, err, operation, quoteID)
}

// Put performs a PUT request and returns the response body.
func (a *BaseAdapter) Put(ctx context.Context, path string, body io.Reader, operation string, quoteID int64) (io.ReadCloser, error) {
	resp, err := a.client.Put(ctx, path, body)
	return a.handle(resp, err, operation, quoteID)
}

// Delete performs a DELETE request and returns the response body.
func (a *BaseAdapter) Delete(ctx context.Context, path, operation string, quoteID int64) (io.ReadCloser, error) {
	resp, err := a.client.Delete(ctx, path)
	return a.handle(resp, err, operation, quoteID)
}

// handle maps client errors and non-2xx responses to domain errors.
// On success the response body is returned unread.
func (a *BaseAdapter) handle(resp *http.Response, err error, operation string, quoteID int64) (io.ReadCloser, error) {
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation, quoteID)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, a.serviceName, operation, quoteID)
	}

	return resp.Body, nil
}

// DecodeResponse reads and decodes a JSON response body into the target type.
// Closes the body after reading. An empty body yields the zero value.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, errors.New("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(body).Decode(&result); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// Translator is a function type that translates an external DTO to a domain type.
// The function should validate the external data and return a domain error
// if validation fails.
type Translator[External any, Domain any] func(ext *External) (Domain, error)

// TranslateSlice applies a translator function to a slice of external DTOs.
// If any translation fails, returns the first error encountered.
func TranslateSlice[E any, D any](items []E, translate Translator[E, D]) ([]D, error) {
	result := make([]D, 0, len(items))

	for i := range items {
		translated, err := translate(&items[i])
		if err != nil {
			return nil, fmt.Errorf("translating item %d: %w", i, err)
		}

		result = append(result, translated)
	}

	return result, nil
}
