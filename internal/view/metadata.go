package view

import (
	"fmt"
	"strings"

	"github.com/starford/wunjo/internal/models"
)

// ReservedKeys are structural list item keys that never count as metadata.
var ReservedKeys = []string{
	"symbol", "link", "text", "outlinks", "tags", "section",
	"children", "task", "checked", "annotated", "header",
	"path", "line", "lineCount", "position", "list",
	"subtasks", "real", "image", "parent", "file",
}

// Metadata maps a field name to its distinct, non-empty string values in
// first-seen order. Keys with no values are never present.
type Metadata map[string][]string

// Values returns every value across all fields.
func (m Metadata) Values() []string {
	var out []string
	for _, vs := range m {
		out = append(out, vs...)
	}
	return out
}

// ExtractMetadata collects the item's inline fields, skipping reserved keys
// and the hidden keys, compared case-insensitively.
func ExtractMetadata(item models.ListItem, hidden []string) Metadata {
	excluded := make(map[string]struct{}, len(ReservedKeys)+len(hidden))
	for _, k := range ReservedKeys {
		excluded[strings.ToLower(k)] = struct{}{}
	}
	for _, k := range hidden {
		excluded[strings.ToLower(k)] = struct{}{}
	}

	md := make(Metadata)
	for key, value := range item.Fields {
		if _, skip := excluded[strings.ToLower(key)]; skip {
			continue
		}
		if isEmptyValue(value) {
			continue
		}
		seen := make(map[string]struct{})
		var values []string
		for _, v := range asSequence(value) {
			s := strings.TrimSpace(stringify(v))
			if s == "" {
				continue
			}
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			values = append(values, s)
		}
		if len(values) > 0 {
			md[key] = values
		}
	}
	return md
}

func isEmptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	}
	return false
}

func asSequence(v any) []any {
	switch x := v.(type) {
	case []any:
		return x
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	case []models.Link:
		out := make([]any, len(x))
		for i, l := range x {
			out[i] = l
		}
		return out
	}
	return []any{v}
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
