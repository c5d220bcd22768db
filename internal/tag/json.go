package tag

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UnmarshalValue decodes a JSON document into a Value.
//
// null becomes Absent and integral numbers become Int. Fractional numbers
// are kept as Other(float64); arrays and objects are kept as Other with the
// decoded []any or map[string]any. Only malformed JSON is an error.
func UnmarshalValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode tag value: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decode tag value: trailing data after JSON value")
	}

	return Of(raw), nil
}

// MarshalJSON implements json.Marshaler for Absent.
func (Absent) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// MarshalJSON implements json.Marshaler for Other by encoding the wrapped value.
func (o Other) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.V)
}
