package acl

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jsamuelsen/quote-generator/internal/adapters/clients"
	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

const (
	postsPath = "/posts"

	// publishUserID is the placeholder author the mock API expects on writes.
	publishUserID = 1
)

// post is the remote representation of a quote. Only title carries meaning.
type post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type newPost struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID int    `json:"userId"`
}

// RemoteSource adapts the mock posts API to ports.RemoteQuoteSource.
type RemoteSource struct {
	BaseAdapter
}

var (
	_ ports.RemoteQuoteSource = (*RemoteSource)(nil)
	_ ports.HealthChecker     = (*RemoteSource)(nil)
)

// NewRemoteSource creates a remote quote source on top of client.
func NewRemoteSource(client *clients.Client) *RemoteSource {
	return &RemoteSource{
		BaseAdapter: NewBaseAdapter(client, client.ServiceName()),
	}
}

// FetchBatch fetches the remote posts and returns at most limit quotes in
// server order. Posts with a blank title are dropped.
func (s *RemoteSource) FetchBatch(ctx context.Context, limit int) ([]domain.Quote, error) {
	if limit <= 0 {
		return nil, domain.NewValidationErrorWithValue("limit", "must be positive", limit)
	}

	body, err := s.Get(ctx, postsPath, "fetch quotes")
	if err != nil {
		return nil, err
	}

	posts, err := DecodeResponse[[]post](body)
	if err != nil {
		return nil, domain.WrapUnavailable(s.ServiceName(), "decoding posts", err)
	}

	batch := *posts
	if len(batch) > limit {
		batch = batch[:limit]
	}

	quotes, _, err := TranslateValid(batch, translatePost)
	if err != nil {
		return nil, err
	}

	return quotes, nil
}

// Publish posts a newly added quote. The response body is discarded.
func (s *RemoteSource) Publish(ctx context.Context, quote domain.Quote) error {
	body, err := s.PostJSON(ctx, postsPath, newPost{
		Title:  quote.Text,
		Body:   quote.Category,
		UserID: publishUserID,
	}, "publish quote")
	if err != nil {
		return err
	}

	_, _ = io.Copy(io.Discard, body)

	return body.Close()
}

// Name implements ports.HealthChecker.
func (s *RemoteSource) Name() string {
	return s.ServiceName()
}

// Check implements ports.HealthChecker. It reports the breaker state and
// makes no request.
func (s *RemoteSource) Check(_ context.Context) error {
	if s.Client().CircuitState() == clients.StateOpen {
		return domain.NewUnavailableError(s.ServiceName(), "circuit breaker open")
	}

	return nil
}

// Optional implements ports.OptionalChecker. Quotes are served from local
// storage while the remote is down.
func (s *RemoteSource) Optional() bool {
	return true
}

func translatePost(p *post) (domain.Quote, error) {
	if strings.TrimSpace(p.Title) == "" {
		return domain.Quote{}, domain.NewValidationError("title", fmt.Sprintf("post %d has no title", p.ID))
	}

	return domain.NewQuote(p.Title, domain.ServerCategory)
}
