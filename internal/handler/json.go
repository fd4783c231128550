package handler

import "encoding/json"

// jsonNullable distinguishes the three states a PATCH body field can be in:
// absent (Set false), explicit null (Set true, Value nil), and present
// (Set true, Value non-nil). Plain pointer fields cannot tell the first two
// apart, and clearing ended_at or location needs the distinction.
type jsonNullable[T any] struct {
	Set   bool
	Value *T
}

func (n *jsonNullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}
