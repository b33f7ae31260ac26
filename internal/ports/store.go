// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port conventions:
//   - Context as first parameter for cancellation and deadlines
//   - Return domain types, never storage rows or remote DTOs
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/quote-generator/internal/domain"
)

// QuoteStore is the durable key-value store behind the quote repository.
// Each value lives under its own key and survives process restarts.
type QuoteStore interface {
	// LoadQuotes returns the persisted quote list.
	// found is false when nothing was ever saved, which callers treat as
	// "use the defaults" rather than as an empty list.
	LoadQuotes(ctx context.Context) (quotes []domain.Quote, found bool, err error)

	// SaveQuotes replaces the persisted quote list.
	SaveQuotes(ctx context.Context, quotes []domain.Quote) error

	// LoadSelectedCategory returns the persisted filter choice.
	LoadSelectedCategory(ctx context.Context) (category string, found bool, err error)

	// SaveSelectedCategory persists the filter choice.
	SaveSelectedCategory(ctx context.Context, category string) error
}

// SessionStore keeps per-session state that does not outlive the session.
type SessionStore interface {
	// LastViewed returns the last quote shown to the session.
	// Returns domain.ErrNotFound if nothing was shown yet or it expired.
	LastViewed(ctx context.Context, sessionID string) (domain.Quote, error)

	// SetLastViewed records the quote most recently shown to the session.
	SetLastViewed(ctx context.Context, sessionID string, quote domain.Quote) error
}

// RemoteQuoteSource is the mock server the sync component talks to.
type RemoteQuoteSource interface {
	// FetchBatch retrieves at most limit quotes from the remote source.
	// Returns domain.ErrUnavailable if the source is unreachable.
	FetchBatch(ctx context.Context, limit int) ([]domain.Quote, error)

	// Publish sends a newly added quote to the remote source.
	Publish(ctx context.Context, quote domain.Quote) error
}

// DecodeResult is the outcome of decoding an import file.
type DecodeResult struct {
	// Quotes are the valid, normalized records in file order.
	Quotes []domain.Quote

	// Skipped counts array elements that were not valid quotes.
	Skipped int
}

// QuoteCodec converts between the quote list and the exchange file format.
type QuoteCodec interface {
	// Encode renders the whole list as an export file.
	Encode(quotes []domain.Quote) ([]byte, error)

	// Decode parses an import file. Structural problems with the file itself
	// return a domain.ValidationError; bad elements are skipped and counted.
	Decode(contents []byte) (DecodeResult, error)
}

// Cache defines the contract for caching operations.
// Implementations may use Redis, Memcached, or in-memory caches.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns domain.ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with optional TTL.
	// A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	// Does not return an error if the key does not exist.
	Delete(ctx context.Context, key string) error
}
