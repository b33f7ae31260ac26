package dto

import (
	"time"

	"github.com/jsamuelsen/quote-generator/internal/app"
	"github.com/jsamuelsen/quote-generator/internal/domain"
)

// QuoteResponse is a quote on the wire.
type QuoteResponse struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// NewQuoteResponse converts a domain quote.
func NewQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{Text: q.Text, Category: q.Category}
}

// NewQuoteResponses converts a list, never returning nil.
func NewQuoteResponses(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, NewQuoteResponse(q))
	}

	return out
}

// AddQuoteRequest is the body of POST /api/v1/quotes.
type AddQuoteRequest struct {
	Text     string `json:"text" form:"text" validate:"required,notempty,max=1000"`
	Category string `json:"category" form:"category" validate:"required,notempty,max=100"`
}

// CategoryQuery is the optional ?category= filter.
type CategoryQuery struct {
	Category string `form:"category" validate:"max=100"`
}

// ListQuotesQuery is the query of GET /api/v1/quotes.
type ListQuotesQuery struct {
	PaginationRequest
	CategoryQuery
}

// FilterRequest is the body of PUT /api/v1/filter.
type FilterRequest struct {
	Category string `json:"category" validate:"max=100"`
}

// FilterResponse reports the persisted filter.
type FilterResponse struct {
	Category string `json:"category"`
}

// DisplayResponse is the quote region of the page.
type DisplayResponse struct {
	Quote   *QuoteResponse `json:"quote,omitempty"`
	Empty   bool           `json:"empty"`
	Message string         `json:"message,omitempty"`
}

// NewDisplayResponse converts an app.Display.
func NewDisplayResponse(d app.Display) DisplayResponse {
	if d.Empty {
		return DisplayResponse{Empty: true, Message: d.Message}
	}

	q := NewQuoteResponse(d.Quote)

	return DisplayResponse{Quote: &q}
}

// AddQuoteResponse is returned by POST /api/v1/quotes.
type AddQuoteResponse struct {
	Quote   QuoteResponse   `json:"quote"`
	Display DisplayResponse `json:"display"`
}

// ImportResponse reports import counts.
type ImportResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}

// NewImportResponse converts an app.ImportResult.
func NewImportResponse(r app.ImportResult) ImportResponse {
	return ImportResponse{Imported: r.Imported, Skipped: r.Skipped, Total: r.Total}
}

// CategoriesResponse lists the distinct categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// SyncStatusResponse is the sync status region.
type SyncStatusResponse struct {
	Status      string     `json:"status"`
	Message     string     `json:"message"`
	LocalCount  int        `json:"localCount"`
	RemoteCount int        `json:"remoteCount"`
	Error       string     `json:"error,omitempty"`
	At          *time.Time `json:"at,omitempty"`
}

// NewSyncStatusResponse converts a sync report. An idle report has no time.
func NewSyncStatusResponse(r domain.SyncReport) SyncStatusResponse {
	resp := SyncStatusResponse{
		Status:      string(r.Status),
		Message:     r.Message,
		LocalCount:  r.LocalCount,
		RemoteCount: r.RemoteCount,
		Error:       r.Error,
	}

	if resp.Message == "" {
		resp.Message = r.Status.Message()
	}

	if !r.At.IsZero() {
		at := r.At.UTC()
		resp.At = &at
	}

	return resp
}
