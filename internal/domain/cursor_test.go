package domain_test

import (
	"encoding/base64"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkarhu/fishing-log/internal/domain"
)

func TestCursor_RoundTrip(t *testing.T) {
	orig := domain.Cursor{
		SortValue: "2025-06-01T07:30:00.000000123Z",
		ID:        uuid.New(),
	}

	decoded, err := domain.DecodeCursor(orig.Encode())

	require.NoError(t, err)
	assert.Equal(t, orig, decoded)
}

func TestCursor_RoundTrip_NumericSortValue(t *testing.T) {
	orig := domain.Cursor{SortValue: "1250", ID: uuid.New()}

	decoded, err := domain.DecodeCursor(orig.Encode())

	require.NoError(t, err)
	assert.Equal(t, orig, decoded)
}

func TestDecodeCursor_Malformed(t *testing.T) {
	cases := map[string]string{
		"not base64":       "!!!not-base64!!!",
		"not json":         base64.RawURLEncoding.EncodeToString([]byte("hello")),
		"wrong json shape": base64.RawURLEncoding.EncodeToString([]byte(`[1,2,3]`)),
		"unknown fields":   base64.RawURLEncoding.EncodeToString([]byte(`{"v":"x","id":"` + uuid.NewString() + `","extra":1}`)),
		"missing id":       base64.RawURLEncoding.EncodeToString([]byte(`{"v":"x"}`)),
		"nil id":           base64.RawURLEncoding.EncodeToString([]byte(`{"v":"x","id":"00000000-0000-0000-0000-000000000000"}`)),
		"empty":            "",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := domain.DecodeCursor(token)

			// Malformed input is always a client error, never a panic or 500.
			assert.True(t, domain.IsCode(err, domain.CodeValidation))
		})
	}
}

func TestDecodeCursor_TamperedPayload(t *testing.T) {
	token := domain.Cursor{SortValue: "x", ID: uuid.New()}.Encode()

	// Flip one character of the token.
	b := []byte(token)
	if b[0] == 'A' {
		b[0] = 'B'
	} else {
		b[0] = 'A'
	}

	_, err := domain.DecodeCursor(string(b))
	if err == nil {
		// A single-character flip can still be valid base64/JSON in rare
		// cases; what matters is that it either decodes cleanly or fails as
		// a validation error, which the other cases cover.
		t.Skip("flip produced a structurally valid cursor")
	}
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}
