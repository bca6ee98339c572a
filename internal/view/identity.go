// Package view renders mentions tables: the list items of a vault that are
// about a subject, with inline metadata stripped from the text and the
// item's links and fields grouped into one column.
package view

import (
	"strings"

	"github.com/starford/wunjo/internal/models"
)

// Normalize returns the identity string of a link-like value. Two values
// refer to the same document exactly when their identities are equal.
func Normalize(v models.LinkRef) string {
	var s string
	switch l := v.(type) {
	case nil:
		return ""
	case models.Link:
		s = l.Path
	case *models.Link:
		if l == nil {
			return ""
		}
		s = l.Path
	default:
		s = v.String()
	}
	for {
		next := normalizeStep(s)
		if next == s {
			break
		}
		s = next
	}
	return strings.ToLower(s)
}

// NormalizeString is Normalize for raw text.
func NormalizeString(s string) string {
	return Normalize(models.RawLink(s))
}

func normalizeStep(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[[") && strings.HasSuffix(s, "]]") && len(s) >= 4 {
		s = s[2 : len(s)-2]
		if i := strings.Index(s, "|"); i >= 0 {
			s = s[:i]
		}
		// A section anchor names a part of the document, not another one.
		if i := strings.Index(s, "#"); i >= 0 {
			s = s[:i]
		}
	}
	if len(s) >= 3 && strings.EqualFold(s[len(s)-3:], ".md") {
		s = s[:len(s)-3]
	}
	return strings.TrimSpace(s)
}
