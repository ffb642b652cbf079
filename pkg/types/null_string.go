package types

import (
	"bytes"
	"encoding/json"
)

// NullString is a tri-state string field: absent from the payload, explicit
// null, or a value. The zero value means absent.
type NullString struct {
	Set   bool
	Valid bool
	Value string
}

// String returns a set, non-null NullString.
func String(value string) NullString {
	return NullString{Set: true, Valid: true, Value: value}
}

// Null returns a set, explicitly-null NullString.
func Null() NullString {
	return NullString{Set: true}
}

func (n *NullString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Valid = false
		n.Value = ""
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (n NullString) MarshalJSON() ([]byte, error) {
	if !n.Set || !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Ptr returns nil for null, otherwise a pointer to the value. Callers must
// check Set first when absence matters.
func (n NullString) Ptr() *string {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
