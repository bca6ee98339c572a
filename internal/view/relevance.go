package view

import (
	"strings"

	"github.com/starford/wunjo/internal/models"
)

// Subject is what list items are filtered against: a #tag or a document.
type Subject struct {
	Raw string
	Tag bool
	// ID is the normalized identity of a document subject, or the
	// tag itself.
	ID string
}

// ParseSubject classifies s as a tag (leading '#') or a document identity.
func ParseSubject(s string) Subject {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return Subject{Raw: s, Tag: true, ID: s}
	}
	return Subject{Raw: s, ID: NormalizeString(s)}
}

// String returns the subject as the user wrote it.
func (s Subject) String() string {
	return s.Raw
}

// Visible reports whether item is about subject.
//
// For a tag, any of the item's tags must match case-insensitively. For a
// document, one of the item's outlinks must point at it, or its identity
// must appear anywhere in the item's text, linked or not.
func Visible(item models.ListItem, subject Subject) bool {
	if subject.ID == "" {
		return false
	}
	if subject.Tag {
		for _, tag := range item.Tags {
			if strings.EqualFold(tag, subject.ID) {
				return true
			}
		}
		return false
	}
	for _, link := range item.Outlinks {
		if Normalize(link) == subject.ID {
			return true
		}
	}
	return strings.Contains(NormalizeString(item.Text), subject.ID)
}

// FilteredLinks returns the item's outlinks minus links to the subject and
// links already present as a metadata value, in their original order.
func FilteredLinks(item models.ListItem, md Metadata, subject Subject) []models.Link {
	if len(item.Outlinks) == 0 {
		return nil
	}
	exclude := map[string]struct{}{subject.ID: {}}
	for _, v := range md.Values() {
		exclude[NormalizeString(v)] = struct{}{}
	}

	var out []models.Link
	for _, link := range item.Outlinks {
		if _, skip := exclude[Normalize(link)]; skip {
			continue
		}
		out = append(out, link)
	}
	return out
}
