package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// DefaultLimit is the default number of items per page.
const DefaultLimit = 20

// MaxLimit is the maximum allowed items per page.
const MaxLimit = 100

// Cursor errors.
var (
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrNoCursor signals a first-page request. It is not a failure.
	ErrNoCursor = errors.New("no cursor provided")
)

// PaginationRequest holds the paging query parameters.
type PaginationRequest struct {
	// Cursor is the opaque NextCursor of a previous page.
	Cursor string `form:"cursor"`

	Limit int `form:"limit" json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the limit with defaults applied.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	return min(p.Limit, MaxLimit)
}

// Offset decodes the cursor into a list position. An empty cursor is offset 0.
func (p *PaginationRequest) Offset() (int, error) {
	cursor, err := DecodeCursor(p.Cursor)
	if errors.Is(err, ErrNoCursor) {
		return 0, nil
	}

	if err != nil {
		return 0, err
	}

	return cursor.Offset, nil
}

// PaginatedResponse is a page of items.
type PaginatedResponse[T any] struct {
	Items []T `json:"items"`

	// NextCursor is empty on the last page.
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
	Total      int    `json:"total"`
}

// Paginate slices items for the page described by req. The quote list has no
// stable identifiers, so cursors carry a list position.
func Paginate[T any](items []T, req PaginationRequest) (*PaginatedResponse[T], error) {
	offset, err := req.Offset()
	if err != nil {
		return nil, err
	}

	limit := req.GetLimit()
	total := len(items)
	start := min(offset, total)
	end := min(start+limit, total)

	page := make([]T, end-start)
	copy(page, items[start:end])

	resp := &PaginatedResponse[T]{
		Items:   page,
		HasMore: end < total,
		Total:   total,
	}

	if resp.HasMore {
		resp.NextCursor = EncodeCursor(&CursorData{Offset: end})
	}

	return resp, nil
}

// CursorData is the content of a pagination cursor.
type CursorData struct {
	Offset int `json:"o"`
}

// EncodeCursor encodes cursor data to a URL-safe base64 string.
func EncodeCursor(data *CursorData) string {
	if data == nil {
		return ""
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(jsonBytes)
}

// DecodeCursor decodes a cursor string. Returns ErrNoCursor for "".
func DecodeCursor(encoded string) (*CursorData, error) {
	if encoded == "" {
		return nil, ErrNoCursor
	}

	jsonBytes, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var data CursorData
	if err := json.Unmarshal(jsonBytes, &data); err != nil || data.Offset < 0 {
		return nil, ErrInvalidCursor
	}

	return &data, nil
}
