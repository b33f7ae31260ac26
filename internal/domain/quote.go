package domain

import (
	"slices"
	"strings"
)

// AllCategories is the filter sentinel meaning "no category filter".
const AllCategories = "all"

// ServerCategory is the category assigned to every quote received from the
// remote sync source.
const ServerCategory = "server"

// NoQuotesMessage is shown when a filter matches nothing.
const NoQuotesMessage = "No quotes available for this category."

// Quote is a single quotation and the free-form category it belongs to.
// Quotes have no identity: two quotes are the same quote when both fields match.
type Quote struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// NewQuote trims both fields and validates that neither is empty.
func NewQuote(text, category string) (Quote, error) {
	q := Quote{
		Text:     strings.TrimSpace(text),
		Category: NormalizeCategory(category),
	}

	if q.Text == "" {
		return Quote{}, NewValidationError("text", "must not be empty")
	}

	if q.Category == "" {
		return Quote{}, NewValidationError("category", "must not be empty")
	}

	return q, nil
}

// NormalizeCategory applies the single category rule used on every entry
// path: surrounding whitespace is dropped, case is kept.
func NormalizeCategory(category string) string {
	return strings.TrimSpace(category)
}

// NormalizeFilter maps an empty filter to AllCategories and trims the rest.
func NormalizeFilter(filter string) string {
	f := NormalizeCategory(filter)
	if f == "" {
		return AllCategories
	}

	return f
}

// Matches reports whether the quote passes the given filter.
func (q Quote) Matches(filter string) bool {
	return filter == AllCategories || q.Category == filter
}

// String renders the quote the way the page displays it.
func (q Quote) String() string {
	return `"` + q.Text + `" — ` + q.Category
}

// Categories returns the distinct categories in lexicographic order.
func Categories(quotes []Quote) []string {
	seen := make(map[string]struct{}, len(quotes))
	out := make([]string, 0, len(quotes))

	for _, q := range quotes {
		if _, ok := seen[q.Category]; ok {
			continue
		}

		seen[q.Category] = struct{}{}
		out = append(out, q.Category)
	}

	slices.Sort(out)

	return out
}

// Filter returns the quotes that match filter, preserving order.
func Filter(quotes []Quote, filter string) []Quote {
	filter = NormalizeFilter(filter)
	if filter == AllCategories {
		return slices.Clone(quotes)
	}

	out := make([]Quote, 0, len(quotes))

	for _, q := range quotes {
		if q.Matches(filter) {
			out = append(out, q)
		}
	}

	return out
}

// SameQuotes reports whether two lists hold the same quotes in the same order.
func SameQuotes(a, b []Quote) bool {
	return slices.Equal(a, b)
}

// DefaultQuotes returns the list a fresh store starts with.
func DefaultQuotes() []Quote {
	return []Quote{
		{Text: "The best way to get started is to quit talking and begin doing.", Category: "Motivation"},
		{Text: "Your limitation—it’s only your imagination.", Category: "Motivation"},
		{Text: "Do something today that your future self will Thankyou for.", Category: "Inspiration"},
		{Text: "Happiness comes from your own actions.", Category: "Happiness"},
	}
}
