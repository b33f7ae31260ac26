package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quote-generator/internal/adapters/clients"
	"github.com/jsamuelsen/quote-generator/internal/domain"
)

// BaseAdapter holds the client and maps its failures to domain errors.
// Embed it in service-specific adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a base adapter for the named service.
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

// Get performs a GET and returns the body of a successful response.
// The caller must close it.
func (a *BaseAdapter) Get(ctx context.Context, path, operation string) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path)

	return a.handle(resp, err, operation)
}

// PostJSON performs a JSON POST and returns the body of a successful response.
// The caller must close it.
func (a *BaseAdapter) PostJSON(ctx context.Context, path string, body any, operation string) (io.ReadCloser, error) {
	resp, err := a.client.PostJSON(ctx, path, body)

	return a.handle(resp, err, operation)
}

func (a *BaseAdapter) handle(resp *http.Response, err error, operation string) (io.ReadCloser, error) {
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, a.serviceName, operation)
	}

	return resp.Body, nil
}

// DecodeResponse decodes a JSON body into T and closes it.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, errors.New("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// Translator converts an external DTO into a domain value. It returns a
// domain.ValidationError when the external data is unusable.
type Translator[External any, Domain any] func(ext *External) (Domain, error)

// TranslateValid applies translate to every item, dropping items that fail
// validation. Any other error aborts the translation.
func TranslateValid[E any, D any](items []E, translate Translator[E, D]) (kept []D, dropped int, err error) {
	kept = make([]D, 0, len(items))

	for i := range items {
		translated, terr := translate(&items[i])
		if terr != nil {
			if domain.IsValidation(terr) {
				dropped++
				continue
			}

			return nil, dropped, fmt.Errorf("translating item %d: %w", i, terr)
		}

		kept = append(kept, translated)
	}

	return kept, dropped, nil
}
