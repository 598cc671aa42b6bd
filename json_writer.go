package stockgains

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// jsonObjectWriter writes a JSON object whose keys keep the order they are
// appended in. Keys are plain ASCII names. The zero value is an empty object.
type jsonObjectWriter struct {
	fields []byte
	err    error
}

// Append writes key with the JSON encoding of value.
func (w *jsonObjectWriter) Append(key string, value any) {
	if w.err != nil {
		return
	}
	v, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("field %q: %w", key, err)
		return
	}
	if len(w.fields) > 0 {
		w.fields = append(w.fields, ',')
	}
	w.fields = strconv.AppendQuote(w.fields, key)
	w.fields = append(w.fields, ':')
	w.fields = append(w.fields, v...)
}

// Optional writes key only when value is not zero.
func (w *jsonObjectWriter) Optional(key string, value any) {
	if !isZero(value) {
		w.Append(key, value)
	}
}

func isZero(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case interface{ IsZero() bool }:
		return v.IsZero()
	case int64:
		return v == 0
	case int:
		return v == 0
	case string:
		return v == ""
	}
	return false
}

// MarshalJSON returns the object, or the first error met while appending.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	obj := make([]byte, 0, len(w.fields)+2)
	obj = append(obj, '{')
	obj = append(obj, w.fields...)
	return append(obj, '}'), nil
}
