package codec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-generator/internal/domain"
)

func newCodec(t *testing.T) *JSON {
	t.Helper()

	c, err := NewJSON()
	require.NoError(t, err)

	return c
}

func TestEncode(t *testing.T) {
	c := newCodec(t)

	got, err := c.Encode([]domain.Quote{{Text: "A <b> & c", Category: "x"}})
	require.NoError(t, err)

	want := "[\n  {\n    \"text\": \"A <b> & c\",\n    \"category\": \"x\"\n  }\n]"
	assert.Equal(t, want, string(got))
}

func TestEncode_Empty(t *testing.T) {
	c := newCodec(t)

	for _, in := range [][]domain.Quote{nil, {}} {
		got, err := c.Encode(in)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(got))
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        []domain.Quote
		wantSkipped int
		wantErr     string
	}{
		{
			name:        "skips non-quote elements",
			input:       `[{"text":"A","category":"b"},{"notAQuote":1}]`,
			want:        []domain.Quote{{Text: "A", Category: "b"}},
			wantSkipped: 1,
		},
		{
			name:  "trims fields and ignores extra properties",
			input: `[{"text":"  Hello  ","category":" Greeting ","author":"me"}]`,
			want:  []domain.Quote{{Text: "Hello", Category: "Greeting"}},
		},
		{
			name:        "wrong field types are skipped",
			input:       `[{"text":1,"category":"b"},{"text":"ok","category":null},"string",42,{"text":"x","category":"y"}]`,
			want:        []domain.Quote{{Text: "x", Category: "y"}},
			wantSkipped: 4,
		},
		{
			name:        "blank fields are skipped",
			input:       `[{"text":"   ","category":"b"},{"text":"a","category":""},{"text":"a","category":"\u000b"},{"text":"keep","category":"me"}]`,
			want:        []domain.Quote{{Text: "keep", Category: "me"}},
			wantSkipped: 3,
		},
		{
			name:  "keeps file order and duplicates",
			input: `[{"text":"2","category":"c"},{"text":"1","category":"c"},{"text":"2","category":"c"}]`,
			want: []domain.Quote{
				{Text: "2", Category: "c"},
				{Text: "1", Category: "c"},
				{Text: "2", Category: "c"},
			},
		},
		{name: "invalid JSON", input: `[{"text":`, wantErr: "invalid JSON"},
		{name: "object top level", input: `{"text":"a","category":"b"}`, wantErr: "expected an array of quotes"},
		{name: "empty array", input: `[]`, wantErr: "no valid quotes found"},
		{name: "no valid records", input: `[{"foo":"bar"}]`, wantErr: "no valid quotes found"},
	}

	c := newCodec(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Decode([]byte(tt.input))

			if tt.wantErr != "" {
				require.True(t, domain.IsValidation(err), "got %v", err)
				assert.Equal(t, tt.wantErr, domain.ValidationMessage(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSkipped, got.Skipped)

			if diff := cmp.Diff(tt.want, got.Quotes); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	c := newCodec(t)
	quotes := append(domain.DefaultQuotes(), domain.Quote{Text: "Dup", Category: "x"}, domain.Quote{Text: "Dup", Category: "x"})

	encoded, err := c.Encode(quotes)
	require.NoError(t, err)

	decoded, err := c.Decode(encoded)
	require.NoError(t, err)
	assert.Zero(t, decoded.Skipped)

	if diff := cmp.Diff(quotes, decoded.Quotes); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
