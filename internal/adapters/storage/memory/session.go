package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

const lastViewedPrefix = "lastViewedQuote:"

// SessionStore implements ports.SessionStore on top of a ports.Cache.
// Entries expire after ttl, the analogue of a browser session ending.
type SessionStore struct {
	cache ports.Cache
	ttl   time.Duration
}

// NewSessionStore creates a session store.
func NewSessionStore(cache ports.Cache, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: cache, ttl: ttl}
}

// LastViewed implements ports.SessionStore.
func (s *SessionStore) LastViewed(ctx context.Context, sessionID string) (domain.Quote, error) {
	raw, err := s.cache.Get(ctx, lastViewedPrefix+sessionID)
	if err != nil {
		return domain.Quote{}, err
	}

	var q domain.Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		return domain.Quote{}, fmt.Errorf("decoding last viewed quote: %w", err)
	}

	return q, nil
}

// SetLastViewed implements ports.SessionStore.
func (s *SessionStore) SetLastViewed(ctx context.Context, sessionID string, quote domain.Quote) error {
	raw, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("encoding last viewed quote: %w", err)
	}

	return s.cache.Set(ctx, lastViewedPrefix+sessionID, raw, s.ttl)
}
