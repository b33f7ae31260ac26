// Package codec converts the quote list to and from the quotes.json exchange file.
package codec

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

const schemaURL = "https://quote-generator.local/schemas/quote.json"

//go:embed quote.schema.json
var quoteSchema []byte

// JSON is the pretty-printed JSON array codec. It implements ports.QuoteCodec.
type JSON struct {
	schema *jsonschema.Schema
}

var _ ports.QuoteCodec = (*JSON)(nil)

// NewJSON compiles the embedded record schema.
func NewJSON() (*JSON, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(quoteSchema))
	if err != nil {
		return nil, fmt.Errorf("parsing quote schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("adding quote schema: %w", err)
	}

	schema, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling quote schema: %w", err)
	}

	return &JSON{schema: schema}, nil
}

// Encode renders quotes as a JSON array indented with two spaces.
// An empty list encodes as [].
func (j *JSON) Encode(quotes []domain.Quote) ([]byte, error) {
	if quotes == nil {
		quotes = []domain.Quote{}
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(quotes); err != nil {
		return nil, fmt.Errorf("encoding quotes: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses an import file. The file must be a JSON array; elements that
// do not match the quote schema, or are blank after trimming, are skipped.
func (j *JSON) Decode(contents []byte) (ports.DecodeResult, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(contents))
	if err != nil {
		return ports.DecodeResult{}, domain.NewValidationError("file", "invalid JSON")
	}

	items, ok := doc.([]any)
	if !ok {
		return ports.DecodeResult{}, domain.NewValidationError("file", "expected an array of quotes")
	}

	result := ports.DecodeResult{Quotes: make([]domain.Quote, 0, len(items))}

	for _, item := range items {
		q, ok := j.record(item)
		if !ok {
			result.Skipped++
			continue
		}

		result.Quotes = append(result.Quotes, q)
	}

	if len(result.Quotes) == 0 {
		return result, domain.NewValidationError("file", "no valid quotes found")
	}

	return result, nil
}

func (j *JSON) record(item any) (domain.Quote, bool) {
	if err := j.schema.Validate(item); err != nil {
		return domain.Quote{}, false
	}

	obj := item.(map[string]any)

	q, err := domain.NewQuote(obj["text"].(string), obj["category"].(string))
	if err != nil {
		return domain.Quote{}, false
	}

	return q, true
}
