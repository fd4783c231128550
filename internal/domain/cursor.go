package domain

import (
	"bytes"
	"encoding/base64"
	"encoding/json"

	"github.com/google/uuid"
)

// Cursor is the resume point for keyset pagination: the sort column's value
// (rendered as a string) and the tie-breaking primary key of the last row on
// the previous page. Cursors are ephemeral; they are round-tripped through
// Encode/DecodeCursor within a list call chain and never persisted.
type Cursor struct {
	SortValue string    `json:"v"`
	ID        uuid.UUID `json:"id"`
}

// Encode renders the cursor as an opaque URL-safe token.
// The wire format is base64url of a small JSON payload.
func (c Cursor) Encode() string {
	payload, err := json.Marshal(c)
	if err != nil {
		// Cursor has no unmarshalable fields; this cannot happen.
		panic("domain.Cursor.Encode: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(payload)
}

// DecodeCursor parses a token produced by Encode. Any malformed or tampered
// input yields a validation_error, never a panic, so callers surface it as
// a client-facing 400, not a 500.
func DecodeCursor(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, Validationf("invalid cursor")
	}

	var c Cursor
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Cursor{}, Validationf("invalid cursor")
	}
	if c.ID == uuid.Nil {
		return Cursor{}, Validationf("invalid cursor")
	}
	return c, nil
}
