package index

import (
	"encoding/json"
	"fmt"

	"github.com/starford/wunjo/internal/models"
)

// storedValue is the JSON form of one inline field value. Exactly one of
// its members is set.
type storedValue struct {
	Text *string          `json:"t,omitempty"`
	Link *models.Link     `json:"l,omitempty"`
	List []storedValue    `json:"a,omitempty"`
	Any  *json.RawMessage `json:"v,omitempty"`
}

func encodeValue(v any) storedValue {
	switch x := v.(type) {
	case string:
		return storedValue{Text: &x}
	case models.Link:
		return storedValue{Link: &x}
	case *models.Link:
		return storedValue{Link: x}
	case []any:
		list := make([]storedValue, 0, len(x))
		for _, e := range x {
			list = append(list, encodeValue(e))
		}
		return storedValue{List: list}
	default:
		raw, err := json.Marshal(x)
		if err != nil {
			s := fmt.Sprint(x)
			return storedValue{Text: &s}
		}
		msg := json.RawMessage(raw)
		return storedValue{Any: &msg}
	}
}

func (s storedValue) decode() any {
	switch {
	case s.Text != nil:
		return *s.Text
	case s.Link != nil:
		return *s.Link
	case s.Any != nil:
		var v any
		if err := json.Unmarshal(*s.Any, &v); err != nil {
			return string(*s.Any)
		}
		return v
	default:
		out := make([]any, 0, len(s.List))
		for _, e := range s.List {
			out = append(out, e.decode())
		}
		return out
	}
}

func encodeFields(fields map[string]any) (string, error) {
	stored := make(map[string]storedValue, len(fields))
	for k, v := range fields {
		stored[k] = encodeValue(v)
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("index: encode fields: %w", err)
	}
	return string(raw), nil
}

func decodeFields(raw string) (map[string]any, error) {
	var stored map[string]storedValue
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("index: decode fields: %w", err)
	}
	if len(stored) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(stored))
	for k, v := range stored {
		out[k] = v.decode()
	}
	return out, nil
}

// marshalJSON encodes v, falling back to fallback for values JSON cannot
// represent.
func marshalJSON(v any, fallback string) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(raw)
}
