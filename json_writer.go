package cryptotax

import (
	"encoding/json"
	"fmt"
)

// jsonObjectWriter builds a JSON object whose fields keep the order they are
// appended in, so that encoded ledgers are byte-identical from one run to the other.
// Its zero value is ready to use. The first marshaling error is kept and
// returned by MarshalJSON, later calls are no-ops.
type jsonObjectWriter struct {
	buf []byte
	err error
}

// Append adds a new key-value pair to the JSON object. The value is marshaled
// with `json.Marshal`.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	v, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal value for key %q: %w", key, err)
		return w
	}
	k, _ := json.Marshal(key) // a string always marshals.
	if len(w.buf) > 0 {
		w.buf = append(w.buf, ',')
	}
	w.buf = append(w.buf, k...)
	w.buf = append(w.buf, ':')
	w.buf = append(w.buf, v...)
	return w
}

// Optional appends a string field only when it is not empty.
func (w *jsonObjectWriter) Optional(key, value string) *jsonObjectWriter {
	if value == "" {
		return w
	}
	return w.Append(key, value)
}

// MarshalJSON returns the complete object.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	obj := make([]byte, 0, len(w.buf)+2)
	obj = append(obj, '{')
	obj = append(obj, w.buf...)
	return append(obj, '}'), nil
}
